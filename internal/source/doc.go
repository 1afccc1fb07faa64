// Package source provides the byte-source capability the FITS reader consumes.
//
// A FITS file is read exclusively through positioned reads: every header
// block and every data element is fetched with an explicit offset and length,
// and no component ever relies on a shared cursor. This package adapts the
// concrete providers a caller may have to that model.
//
// # Providers
//
//   - [Memory]: a fully buffered byte region. Safe for concurrent reads.
//   - [FromReaderAt]: any io.ReaderAt (an *os.File, a memory map, a network
//     range reader), with an optionally known total size.
//   - [Stream]: an io.ReadSeeker with a single cursor. Each positioned read is
//     a Seek followed by a full read, serialized under one mutex.
//   - [Gunzip]: inflates a gzip stream into a [Memory] region, since gzip
//     payloads cannot be addressed by offset.
//
// # Reading
//
// [Reader] wraps a provider and issues bounded reads. A read that stops
// short of the requested length produces a [TruncatedError]; any other
// provider failure is reported as an [Error] annotated with the offset and
// length that were requested.
//
// # Lifetime
//
// [Guard] ties a provider to the lifetime of its owner. After [Guard.Close],
// every read fails with [ErrClosed] instead of touching released resources.
package source
