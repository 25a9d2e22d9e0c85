package canvas

import "context"

// saga applies a local change, commits it remotely and undoes the local change when the
// commit fails. A nil commit leaves the change local. The commit outlives the caller: once
// started it runs to its own outcome even if ctx is cancelled.
type saga struct {
	apply      func()
	commit     func(ctx context.Context) error
	compensate func()
}

func (s saga) run(ctx context.Context) error {
	s.apply()
	if s.commit == nil {
		return nil
	}
	commitCtx, cancel := detach(ctx)
	defer cancel()
	if err := s.commit(commitCtx); err != nil {
		s.compensate()
		return err
	}
	return nil
}
