// Package transport moves frames over a connected byte stream with bounded waits.
//
// A [Conn] pairs one net.Conn with exactly one [frame.Frame] that is reused for every
// request on the connection. Only one frame is in flight per Conn: the caller sends,
// then receives, and must not interleave a second send before the reply is consumed.
//
// # Receive
//
// Receive runs in two windows of the configured timeout (15 seconds by default):
//
//  1. Wait for the stream to become readable and peek the length byte without
//     consuming it.
//  2. Validate the length against the frame layout. An out-of-range length is a
//     framing error and nothing further is read.
//  3. Open a fresh window and consume exactly length bytes, starting with the
//     length byte itself. The body may arrive in any number of segments inside
//     this window.
//
// A stalled peer therefore blocks Receive for at most twice the timeout.
//
// # Send
//
// Send waits up to one timeout for the stream to accept the frame and writes
// exactly the number of bytes declared in the length field.
//
// # Failures
//
// Every failure is returned as a *[TransferError] carrying the byte count that was
// actually moved. Nothing is retried and no reconnection happens here; the caller
// decides whether to retry, close the Conn or report upward. After any error other
// than a framing error on Send, the stream position is undefined and the Conn
// should be closed.
package transport
