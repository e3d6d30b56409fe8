package payment

// paymentState implements the state pattern for the payment lifecycle:
//
//	pending --accepted--> processing --confirmed--> paid --reversal--> refunded
//	pending --failed----> failed
//	processing --failed-> failed
//
// failed and refunded are terminal. Out-of-order provider callbacks are
// rejected, never re-ordered.
type paymentState interface {
	Status() Status
	OnProviderAccepted(p *Payment) (paymentState, error)
	OnProviderConfirmed(p *Payment) (paymentState, error)
	OnProviderFailed(p *Payment, reason string) (paymentState, error)
	OnReversal(p *Payment, reason string) (paymentState, error)
}

func stateFor(s Status) (paymentState, error) {
	switch s {
	case StatusPending:
		return pendingState{}, nil
	case StatusProcessing:
		return processingState{}, nil
	case StatusPaid:
		return paidState{}, nil
	case StatusFailed:
		return failedState{}, nil
	case StatusRefunded:
		return refundedState{}, nil
	default:
		return nil, ErrInvalidStatus
	}
}

type pendingState struct{}

func (pendingState) Status() Status { return StatusPending }

func (pendingState) OnProviderAccepted(p *Payment) (paymentState, error) {
	p.StatusReason = ""
	return processingState{}, nil
}

func (pendingState) OnProviderConfirmed(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (pendingState) OnProviderFailed(p *Payment, reason string) (paymentState, error) {
	p.StatusReason = reason
	return failedState{}, nil
}

func (pendingState) OnReversal(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}

type processingState struct{}

func (processingState) Status() Status { return StatusProcessing }

func (processingState) OnProviderAccepted(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (processingState) OnProviderConfirmed(p *Payment) (paymentState, error) {
	p.StatusReason = ""
	return paidState{}, nil
}

func (processingState) OnProviderFailed(p *Payment, reason string) (paymentState, error) {
	p.StatusReason = reason
	return failedState{}, nil
}

func (processingState) OnReversal(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}

type paidState struct{}

func (paidState) Status() Status { return StatusPaid }

func (paidState) OnProviderAccepted(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (paidState) OnProviderConfirmed(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (paidState) OnProviderFailed(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (paidState) OnReversal(p *Payment, reason string) (paymentState, error) {
	p.StatusReason = reason
	return refundedState{}, nil
}

type failedState struct{}

func (failedState) Status() Status { return StatusFailed }

func (failedState) OnProviderAccepted(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (failedState) OnProviderConfirmed(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (failedState) OnProviderFailed(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (failedState) OnReversal(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}

type refundedState struct{}

func (refundedState) Status() Status { return StatusRefunded }

func (refundedState) OnProviderAccepted(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (refundedState) OnProviderConfirmed(*Payment) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (refundedState) OnProviderFailed(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}

func (refundedState) OnReversal(*Payment, string) (paymentState, error) {
	return nil, ErrInvalidTransition
}
