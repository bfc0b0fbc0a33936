// Package annotation finds coverage ignore markers in source files.
//
// Three kinds of marker are supported, written as line comments:
//
//	// +testreport:ignore:all     the whole file is excluded from the report
//	// +testreport:ignore:block   the lines up to the next blank line are not counted
//	// +testreport:ignore:{n}     the next n lines are not counted
//
// A block is the run of non-blank lines following the marker, for example:
//
//	// +testreport:ignore:block
//	guard let user = try await User.find(id, on: db) else {  -|
//	    throw Abort(.notFound)                                 | -> ignored block
//	}                                                         -|
//
//	return user                                               -> counted
package annotation
