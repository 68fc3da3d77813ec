package errors

// User-friendly error messages
const (
	MsgInvalidQuery       = "Please tell us what you're looking for, like \"apartments in Miami under $200\"."
	MsgPropertyNotFound   = "Property not found. Please try a different listing."
	MsgServiceUnavailable = "We're unable to search listings right now. Please try again in a few minutes."
	MsgRateLimited        = "You're searching too quickly! Please wait a moment and try again."
	MsgInvalidParameters  = "The provided parameters are invalid. Please check your input and try again."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)
