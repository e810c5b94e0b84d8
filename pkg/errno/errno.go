package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage returns a copy of the Errno carrying a specific human-readable
// message. The code is preserved so callers can still classify the error.
func (e Errno) WithMessage(msg string) Errno {
	if msg == "" {
		return e
	}
	return Errno{Code: e.Code, Message: msg}
}

// Is lets errors.Is match two Errno values by code, regardless of any detail
// message attached via WithMessage.
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return e.Code == t.Code
	case *Errno:
		return e.Code == t.Code
	}
	return false
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
)

// Wallet / provider errors (20100+)
var (
	ErrProviderUnavailable = Errno{Code: 20101, Message: "Wallet provider is not available"}
	ErrUserRejected        = Errno{Code: 20102, Message: "Request was rejected by the user"}
	ErrNoActiveSession     = Errno{Code: 20103, Message: "No active wallet session"}
)

// Validation errors (20200+), raised before any network call
var (
	ErrInvalidAddress     = Errno{Code: 20201, Message: "Invalid address"}
	ErrInvalidAmount      = Errno{Code: 20202, Message: "Amount must be a positive decimal"}
	ErrTokenNotConfigured = Errno{Code: 20203, Message: "Token contract address is not configured"}
)

// Network / chain errors (20300+)
var (
	ErrNetworkMismatch = Errno{Code: 20301, Message: "Connected network differs from the expected network"}
	ErrRpcFailure      = Errno{Code: 20302, Message: "RPC request failed"}
	ErrOnChainRevert   = Errno{Code: 20303, Message: "Transaction reverted on-chain"}
	ErrTxNotTracked    = Errno{Code: 20304, Message: "Transaction is not being tracked"}
)
