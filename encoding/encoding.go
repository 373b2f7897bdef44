// Package encoding offers CBOR (de)serialization for noirscope reports.
//
// Payloads embed the library version; deserializing a payload produced by a
// different major version fails rather than yielding a silently different
// report shape.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/noirscope/noirscope"
)

// ErrVersionMismatch is returned when a payload was written by a different
// major version of the library.
var ErrVersionMismatch = errors.New("encoding: payload written by an incompatible noirscope version")

// Write serializes object into a file.
func Write(path string, from interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Serialize(f, from)
}

// Read deserializes a file into object; object must be a pointer.
func Read(path string, into interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Deserialize(f, into)
}

// Serialize writes the library version followed by the object, both in
// canonical CBOR.
func Serialize(w io.Writer, from interface{}) error {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	enc := em.NewEncoder(w)
	if err := enc.Encode(noirscope.Version.String()); err != nil {
		return err
	}
	return enc.Encode(from)
}

// Deserialize reads an object written by Serialize. The leading version is
// checked for major-version compatibility.
func Deserialize(r io.Reader, into interface{}) error {
	dec := cbor.NewDecoder(r)

	var v string
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("encoding: reading payload version: %w", err)
	}
	written, err := semver.Parse(v)
	if err != nil {
		return fmt.Errorf("encoding: invalid payload version %q: %w", v, err)
	}
	if written.Major != noirscope.Version.Major {
		return ErrVersionMismatch
	}

	return dec.Decode(into)
}
