// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Two structured errors carry a cause:
//
//	EngineError        - failure reported by the embedded storage engine
//	SerializationError - a value could not be encoded or decoded
//
// callers distinguish them with IsErrEngine and IsErrSerialization
// (a serialization failure means corrupt or foreign data, an engine
// failure may be transient I/O)
package fault
