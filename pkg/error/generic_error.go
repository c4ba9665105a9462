package error

// GenericError is implemented by every error this service surfaces through
// the REST boundary, so the recovery middleware can map it to a response.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
