package gate

import "fmt"

// ConfigError reports invalid configuration (malformed version, missing
// credentials). Nothing has been attempted when it is returned.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// ManifestError reports a missing or malformed project manifest field.
type ManifestError struct {
	Path   string
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Reason)
}

// TagCreationError reports a tag store failure. The publish was not attempted.
type TagCreationError struct {
	Tag string
	Err error
}

func (e *TagCreationError) Error() string {
	return fmt.Sprintf("create tag %s: %v", e.Tag, e.Err)
}

func (e *TagCreationError) Unwrap() error { return e.Err }

// PublishError reports that the registry rejected the upload or the transport
// failed. The tag for this version may already exist.
type PublishError struct {
	Version string
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Version, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// PublishVerificationError reports that the upload call succeeded but the
// registry does not reflect the version after the bounded verification reads.
type PublishVerificationError struct {
	Version string
	Err     error
}

func (e *PublishVerificationError) Error() string {
	return fmt.Sprintf("publish verification for %s: %v", e.Version, e.Err)
}

func (e *PublishVerificationError) Unwrap() error { return e.Err }
