package pool

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how payloads reach the workers.
type Mode string

const (
	// Shared workers receive args and return results by reference.
	Shared Mode = "shared"
	// Isolated workers only see encoded copies of args, and callers only see
	// decoded copies of results.
	Isolated Mode = "isolated"
)

// ParseMode accepts the mode names and their thread/process aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shared", "thread", "threads":
		return Shared, nil
	case "isolated", "process", "processes":
		return Isolated, nil
	}
	return "", errors.Wrapf(ErrUnknownMode, "%q", s)
}

// strategy moves a task across the worker boundary and back.
//
// enter runs in Submit, exec in a worker and leave in the dispatcher.
type strategy[A, R any] interface {
	enter(args A) (any, error)
	exec(fn Func[A, R], in any) (any, error)
	leave(out any) (R, error)
}

type sharedStrategy[A, R any] struct{}

func (sharedStrategy[A, R]) enter(args A) (any, error) {
	return args, nil
}

func (sharedStrategy[A, R]) exec(fn Func[A, R], in any) (any, error) {
	return fn(in.(A))
}

func (sharedStrategy[A, R]) leave(out any) (R, error) {
	// a nil interface result comes back as the zero R
	r, _ := out.(R)
	return r, nil
}

type isolatedStrategy[A, R any] struct {
	codec Codec
}

func (s isolatedStrategy[A, R]) enter(args A) (any, error) {
	b, err := s.codec.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(err, "encode args")
	}
	return b, nil
}

func (s isolatedStrategy[A, R]) exec(fn Func[A, R], in any) (any, error) {
	var args A
	if err := s.codec.Unmarshal(in.([]byte), &args); err != nil {
		return nil, errors.Wrap(err, "decode args")
	}
	res, err := fn(args)
	if err != nil {
		// the error value stays on this side, only its text crosses
		return nil, errors.New(err.Error())
	}
	b, err := s.codec.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(err, "encode result")
	}
	return b, nil
}

func (s isolatedStrategy[A, R]) leave(out any) (R, error) {
	var res R
	if err := s.codec.Unmarshal(out.([]byte), &res); err != nil {
		return res, errors.Wrap(err, "decode result")
	}
	return res, nil
}
