// Package frame defines the fixed byte layout of a tag-access protocol message.
//
// A frame on the wire is:
//
//	[Length(1)][Version(1)][Function(1)][Exception(1)][TagName(64)][TagValue(128)]
//
// Length counts every valid byte of the message including itself. A get-tag request
// stops after the tag name, while set-tag requests and all replies use the full frame.
// Text fields are NUL padded to their fixed width and truncated on overflow.
//
// The exception byte is a bitmask: the low nibble is a base [Status] and the high
// nibble holds the independent read, write, application and function error flags.
package frame
