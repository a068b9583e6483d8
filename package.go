// Package resume bridges callback-driven APIs and linear code. A body
// function written as straight-line logic runs on its own coroutine and
// pauses at explicit yield points; callbacks registered with external APIs
// later resume it with a value, an error, or a close signal. Control flow
// that would otherwise be scattered across a chain of callbacks reads top to
// bottom instead.
//
// A computation is started with Start or StartValue and driven through
// handles. A Strong handle keeps the computation alive; a Weak handle
// observes it without pinning it, so a computation whose callbacks were never
// invoked is reclaimed by the garbage collector, its deferred cleanup runs,
// and an optional finalize hook fires. The body itself receives a weak
// handle, which it hands to callback APIs after converting to a strong one,
// making the registered callbacks the exact measure of the computation's
// lifetime.
//
// Handles resume a suspended computation with Next, Send, Throw and Close,
// or with the *Wait variants, which poll until the computation pauses
// instead of failing when a previous resume is still executing. The
// *WaitAsync variants spawn that polling onto a goroutine of its own.
//
// Panics inside a body are captured with their stack and reported as errors
// from the resume call that triggered them rather than tearing down the
// resumer's goroutine.
package resume
