package tagserver

import (
	"errors"

	"github.com/arloliu/go-tagwire/frame"
	"github.com/arloliu/go-tagwire/logger"
	"github.com/arloliu/go-tagwire/tagcache"
)

// dispatch turns the request held in f into its reply in place. It returns
// false when the connection must be closed without replying.
func dispatch(log logger.Logger, f *frame.Frame, cache tagcache.Cache) bool {
	if err := f.Validate(); err != nil {
		switch {
		case errors.Is(err, frame.ErrUnsupportedVersion):
			log.Warn("tag server: unsupported protocol version, closing", "version", f.Version())
			return false

		case errors.Is(err, frame.ErrUnknownFunction):
			log.Warn("tag server: unknown function", "function", f.Function())
			f.PrepareReply(frame.ExFunctionError, "")

		default:
			log.Warn("tag server: malformed request", "function", f.Function(), "error", err)
			f.PrepareReply(frame.NewExceptionCode(failureFlag(f.Function()), frame.StatusBadFormat), "")
		}

		return true
	}

	if st := cache.Status(); st != tagcache.StatusConnected {
		log.Error("tag server: cache unavailable", "status", st)
		f.PrepareReply(frame.NewExceptionCode(frame.ExApplicationError, frame.StatusNotConnected), "")

		return true
	}

	switch f.Function() {
	case frame.FuncGetTag:
		getTag(log, f, cache)
	case frame.FuncSetTag:
		setTag(log, f, cache)
	}

	return true
}

func getTag(log logger.Logger, f *frame.Frame, cache tagcache.Cache) {
	name := f.TagName()

	value, err := cache.GetTagValue(name, tagcache.FormatDefault)
	if err != nil {
		log.Debug("tag server: get-tag failed", "tag", name, "error", err)
		f.PrepareReply(frame.NewExceptionCode(frame.ExReadError, statusOf(err)), "")

		return
	}

	if len(value) > frame.TagValueLen {
		log.Warn("tag server: tag value truncated", "tag", name, "length", len(value))
	}
	f.PrepareReply(0, value)
}

func setTag(log logger.Logger, f *frame.Frame, cache tagcache.Cache) {
	name, text := f.TagName(), f.TagValue()

	err := func() error {
		tag, err := cache.TagObject(name)
		if err != nil {
			return err
		}

		words, err := tagcache.EncodeText(tag.Width, text)
		if err != nil {
			return err
		}

		return cache.SetTagValue(name, words)
	}()
	if err != nil {
		log.Debug("tag server: set-tag failed", "tag", name, "value", text, "error", err)
		f.PrepareReply(frame.NewExceptionCode(frame.ExWriteError, statusOf(err)), text)

		return
	}

	f.PrepareReply(0, text)
}

// failureFlag returns the exception flag reported for a failed request of fn.
func failureFlag(fn frame.FunctionID) frame.ExceptionCode {
	if fn == frame.FuncSetTag {
		return frame.ExWriteError
	}

	return frame.ExReadError
}

// statusOf maps a cache error to the base status of the reply.
func statusOf(err error) frame.Status {
	switch {
	case errors.Is(err, tagcache.ErrNotConnected):
		return frame.StatusNotConnected
	case errors.Is(err, tagcache.ErrTagNotFound):
		return frame.StatusNoSuchTag
	case errors.Is(err, tagcache.ErrBadValue), errors.Is(err, tagcache.ErrWordCount):
		return frame.StatusBadValue
	case errors.Is(err, tagcache.ErrBadFormat), errors.Is(err, tagcache.ErrUnknownWidth):
		return frame.StatusBadFormat
	default:
		return frame.StatusCacheFault
	}
}
