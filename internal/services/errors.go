package services

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned by the job fetcher when the posting URL does not
// resolve to a usable job page.
var ErrJobNotFound = errors.New("job posting not found")

// DocumentParseError reports an input PDF that could not be read. The message
// carries metadata only; the underlying parser error stays internal so library
// details never reach callers or logs of user content.
type DocumentParseError struct {
	ByteLen int
	cause   error
}

func newDocumentParseError(byteLen int, cause error) *DocumentParseError {
	return &DocumentParseError{ByteLen: byteLen, cause: cause}
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("unreadable PDF document (%d bytes)", e.ByteLen)
}

// RenderError reports a layout engine failure while building an output
// document. Retrying with the same input will fail identically.
type RenderError struct {
	Mode   RenderMode
	Blocks int
	cause  error
}

func newRenderError(mode RenderMode, blocks int, cause error) *RenderError {
	return &RenderError{Mode: mode, Blocks: blocks, cause: cause}
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("document layout failed (%s mode, %d blocks)", e.Mode, e.Blocks)
}
