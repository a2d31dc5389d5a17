// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"slices"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/actionbar/core"
)

// encoder writes MUS-encoded fields into a buffer sized in advance.
type encoder struct {
	bs []byte
	n  int
}

func (e *encoder) str(v string) { e.n += ord.String.Marshal(v, e.bs[e.n:]) }
func (e *encoder) count(v int)  { e.n += varint.Int.Marshal(v, e.bs[e.n:]) }
func (e *encoder) flag(v bool)  { e.n += ord.Bool.Marshal(v, e.bs[e.n:]) }
func (e *encoder) id(v core.ID) { e.n += varint.Uint64.Marshal(uint64(v), e.bs[e.n:]) }

// decoder reads MUS-encoded fields, keeping the first error.
type decoder struct {
	bs  []byte
	n   int
	err error
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

// count reads a collection length. Every element takes at least one byte,
// so a length beyond the remaining input means the data is truncated.
func (d *decoder) count() int {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(d.bs[d.n:])
	d.n += n
	if err != nil {
		d.err = err
		return 0
	}
	if v < 0 || v > len(d.bs)-d.n {
		d.err = ErrTruncatedData
		return 0
	}
	return v
}

func (d *decoder) flag() bool {
	if d.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) id() core.ID {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return core.ID(v)
}

func (d *decoder) finish() error {
	if d.err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, d.err)
	}
	return nil
}

func sizeStrings(vs []string) int {
	size := varint.Int.Size(len(vs))
	for _, v := range vs {
		size += ord.String.Size(v)
	}
	return size
}

func sizeAction(a *core.Action) int {
	size := sizeStrings(a.Names) + varint.Int.Size(len(a.Params))
	for _, p := range a.Params {
		size += ord.String.Size(string(p))
	}
	return size + ord.String.Size(a.CaptionFormat) + ord.Bool.Size(a.Parameterized)
}

// MarshalApp serializes an App and its actions to bytes.
func MarshalApp(app *core.App) []byte {
	size := ord.String.Size(app.ID) + varint.Int.Size(len(app.Actions))
	for _, a := range app.Actions {
		size += sizeAction(a)
	}

	e := &encoder{bs: make([]byte, size)}
	e.str(app.ID)
	e.count(len(app.Actions))
	for _, a := range app.Actions {
		e.count(len(a.Names))
		for _, name := range a.Names {
			e.str(name)
		}
		e.count(len(a.Params))
		for _, p := range a.Params {
			e.str(string(p))
		}
		e.str(a.CaptionFormat)
		e.flag(a.Parameterized)
	}
	return e.bs
}

// UnmarshalApp deserializes an App from bytes.
func UnmarshalApp(data []byte) (*core.App, error) {
	d := &decoder{bs: data}
	app := &core.App{ID: d.str()}

	actions := d.count()
	for i := 0; i < actions && d.err == nil; i++ {
		a := &core.Action{}
		names := d.count()
		for j := 0; j < names && d.err == nil; j++ {
			a.Names = append(a.Names, d.str())
		}
		params := d.count()
		for j := 0; j < params && d.err == nil; j++ {
			a.Params = append(a.Params, core.NounType(d.str()))
		}
		a.CaptionFormat = d.str()
		a.Parameterized = d.flag()
		app.Actions = append(app.Actions, a)
	}

	if err := d.finish(); err != nil {
		return nil, err
	}
	return app, nil
}

// MarshalNoun serializes a Noun to bytes. Attributes are written in key order.
func MarshalNoun(noun *core.Noun) []byte {
	keys := make([]string, 0, len(noun.Attributes))
	for k := range noun.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	size := varint.Uint64.Size(uint64(noun.ID)) +
		ord.String.Size(string(noun.Type)) +
		ord.String.Size(noun.Serialized) +
		ord.String.Size(noun.Tel) +
		ord.String.Size(noun.Subtitle) +
		varint.Int.Size(len(keys))
	for _, k := range keys {
		size += ord.String.Size(k) + ord.String.Size(noun.Attributes[k])
	}

	e := &encoder{bs: make([]byte, size)}
	e.id(noun.ID)
	e.str(string(noun.Type))
	e.str(noun.Serialized)
	e.str(noun.Tel)
	e.str(noun.Subtitle)
	e.count(len(keys))
	for _, k := range keys {
		e.str(k)
		e.str(noun.Attributes[k])
	}
	return e.bs
}

// UnmarshalNoun deserializes a Noun from bytes.
func UnmarshalNoun(data []byte) (*core.Noun, error) {
	d := &decoder{bs: data}
	noun := &core.Noun{}
	noun.ID = d.id()
	noun.Type = core.NounType(d.str())
	noun.Serialized = d.str()
	noun.Tel = d.str()
	noun.Subtitle = d.str()

	if attrs := d.count(); attrs > 0 {
		noun.Attributes = make(map[string]string, attrs)
		for i := 0; i < attrs && d.err == nil; i++ {
			k := d.str()
			noun.Attributes[k] = d.str()
		}
	}

	if err := d.finish(); err != nil {
		return nil, err
	}
	return noun, nil
}
