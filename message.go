// Copyright 2026 The convlog Authors
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

package convlog

import "strconv"

// Message is the closed sum of the two message forms a record can carry:
// free-form text or a numeric message code. Construct values with Text or
// Code; the zero value behaves like Text("").
type Message struct {
	text  string
	code  int
	coded bool
}

// Text returns a Message carrying free-form text. It serializes as a JSON
// string.
func Text(s string) Message {
	return Message{text: s}
}

// Code returns a Message carrying a numeric message code. It serializes as
// a JSON number.
func Code(c int) Message {
	return Message{code: c, coded: true}
}

// IsCode reports whether the message carries a numeric code rather than
// text.
func (m Message) IsCode() bool { return m.coded }

// String returns the text form of the message. Coded messages render as
// their decimal representation.
func (m Message) String() string {
	if m.coded {
		return strconv.Itoa(m.code)
	}
	return m.text
}

// MarshalJSON renders the message as a JSON string or number depending on
// its form.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.coded {
		return strconv.AppendInt(nil, int64(m.code), 10), nil
	}
	return marshalNoHTML(m.text)
}
