// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sequencenumber

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Generate(t *testing.T) {
	now := func() time.Time { return time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC) }
	testCases := []struct {
		name     string
		uuidGen  ShortUUIDGenerateFunc
		expected string
	}{
		{
			name:     "截取前八位并转大写",
			uuidGen:  func() string { return "nUfojcH2M5j2j3Tk5A1mf2" },
			expected: "ORD-202603-NUFOJCH2",
		},
		{
			name: "长度不足时继续拼接",
			uuidGen: func() func() string {
				parts := []string{"ab", "cdef", "ghij"}
				idx := 0
				return func() string {
					p := parts[idx%len(parts)]
					idx++
					return p
				}
			}(),
			expected: "ORD-202603-ABCDEFGH",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGeneratorWith("ORD", now, tc.uuidGen)
			assert.Equal(t, tc.expected, g.Generate())
		})
	}
}

func TestGenerator_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{6}-[0-9A-Z]{8}$`)
	g := NewGenerator("ORD")
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		sn := g.Generate()
		assert.Regexp(t, pattern, sn)
		seen[sn] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
