// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package list

import (
	"testing"
)

type item struct {
	id string
	n  int
}

func (it item) String() string { return it.id }

func newItemList(ids ...string) *List[string, item] {
	l := New[string, item](func(it item) string { return it.id })
	for i, id := range ids {
		l.Add(item{id: id, n: i})
	}
	return l
}

func ids(l *List[string, item]) []string {
	vs := l.Values()
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = v.id
	}
	return s
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func checkList(t *testing.T, l *List[string, item], expected ...string) {
	t.Helper()
	if err := l.Check(); err != nil {
		t.Fatal(err)
	}
	if s := ids(l); !equalStrings(s, expected) {
		t.Fatalf("expected: %v, results: %v", expected, s)
	}
	if l.Len() != len(expected) {
		t.Fatalf("expected size: %d, results: %d", len(expected), l.Len())
	}
}

func TestEmptyList(t *testing.T) {
	l := newItemList()

	if !l.IsEmpty() {
		t.Errorf("new list should be empty")
	}
	if _, ok := l.First(); ok {
		t.Errorf("First on empty list")
	}
	if _, ok := l.Last(); ok {
		t.Errorf("Last on empty list")
	}
	if _, ok := l.Next(); ok {
		t.Errorf("Next on empty list")
	}
	if _, ok := l.Previous(); ok {
		t.Errorf("Previous on empty list")
	}
	if _, ok := l.Remove(); ok {
		t.Errorf("Remove on empty list")
	}
	if _, ok := l.RemoveKey("a"); ok {
		t.Errorf("RemoveKey on empty list")
	}
	if _, ok := l.Find("a"); ok {
		t.Errorf("Find on empty list")
	}
	if _, ok := l.Get(0); ok {
		t.Errorf("Get on empty list")
	}
	checkList(t, l)
}

func TestAddAppends(t *testing.T) {
	l := newItemList("a", "b", "c")
	checkList(t, l, "a", "b", "c")

	if v, _ := l.Current(); v.id != "c" {
		t.Errorf("current should be the last added value, got %s", v)
	}
	if _, ok := l.Peek(); ok {
		t.Errorf("next should be undefined after appending")
	}
}

func TestFirstThenAdd(t *testing.T) {
	l := newItemList("a", "b", "c")

	l.First()
	l.Add(item{id: "x"})
	checkList(t, l, "a", "x", "b", "c")

	if v, ok := l.Current(); !ok || v.id != "x" {
		t.Errorf("current should be x, got %s", v)
	}
	if v, ok := l.Next(); !ok || v.id != "b" {
		t.Errorf("next should be b, got %s", v)
	}
}

func TestNextAtTheEnd(t *testing.T) {
	l := newItemList("a", "b")
	l.Last()
	if _, ok := l.Next(); ok {
		t.Errorf("no value should be returned after the tail")
	}
	if v, ok := l.Current(); !ok || v.id != "b" {
		t.Errorf("cursor should be unchanged, got %s", v)
	}
	checkList(t, l, "a", "b")
}

func TestPreviousAndInsertHead(t *testing.T) {
	l := newItemList("b", "c")

	l.First()
	if _, ok := l.Previous(); ok {
		t.Errorf("no predecessor of the head")
	}
	if _, ok := l.Current(); ok {
		t.Errorf("current should be undefined")
	}
	if v, ok := l.Peek(); !ok || v.id != "b" {
		t.Errorf("next should be the head, got %s", v)
	}

	l.Add(item{id: "a"})
	checkList(t, l, "a", "b", "c")

	l.Last()
	if v, ok := l.Previous(); !ok || v.id != "b" {
		t.Errorf("expected b, got %s", v)
	}
	if v, ok := l.Peek(); !ok || v.id != "c" {
		t.Errorf("expected next c, got %s", v)
	}
	l.Add(item{id: "bc"})
	checkList(t, l, "a", "b", "bc", "c")
}

func TestAddHeadAndTail(t *testing.T) {
	l := newItemList()
	l.AddHead(item{id: "b"})
	checkList(t, l, "b")
	l.AddHead(item{id: "a"})
	if v, ok := l.Peek(); !ok || v.id != "b" {
		t.Errorf("next should be the previous head, got %s", v)
	}
	l.AddTail(item{id: "c"})
	if _, ok := l.Peek(); ok {
		t.Errorf("next should be undefined after AddTail")
	}
	checkList(t, l, "a", "b", "c")
}

func TestRemoveWhileTraversing(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e", "f", "g"}
	drops := []map[string]bool{
		{},
		{"a": true},
		{"g": true},
		{"a": true, "b": true, "c": true},
		{"b": true, "d": true, "f": true},
		{"a": true, "b": true, "c": true, "d": true, "e": true, "f": true, "g": true},
	}

	for _, drop := range drops {
		l := newItemList(all...)

		visited := make([]string, 0, len(all))
		kept := make([]string, 0, len(all))
		for v, ok := l.First(); ok; v, ok = l.Next() {
			visited = append(visited, v.id)
			if drop[v.id] {
				if r, ok := l.Remove(); !ok || r.id != v.id {
					t.Errorf("removed %s, expected %s", r, v)
				}
				if err := l.Check(); err != nil {
					t.Error(err)
					return
				}
			} else {
				kept = append(kept, v.id)
			}
		}

		if !equalStrings(visited, all) {
			t.Errorf("drop %v: visited %v", drop, visited)
		}
		checkList(t, l, kept...)
	}
}

func TestRemoveWithoutCurrent(t *testing.T) {
	l := newItemList("a", "b")
	l.First()
	l.Remove()
	if _, ok := l.Current(); ok {
		t.Errorf("current should be undefined after removing the head")
	}
	if _, ok := l.Remove(); ok {
		t.Errorf("Remove without current node should do nothing")
	}
	checkList(t, l, "b")

	if v, ok := l.Next(); !ok || v.id != "b" {
		t.Errorf("expected b, got %s", v)
	}
	l.Remove()
	checkList(t, l)
	if !l.IsEmpty() {
		t.Errorf("list should be empty")
	}
}

func TestRemoveKey(t *testing.T) {
	l := newItemList("a", "b", "c", "d")

	v, ok := l.RemoveKey("c")
	if !ok || v.id != "c" {
		t.Errorf("expected c, got %s", v)
	}
	checkList(t, l, "a", "b", "d")
	if v, _ := l.Current(); v.id != "b" {
		t.Errorf("current should be b, got %s", v)
	}
	if v, _ := l.Peek(); v.id != "d" {
		t.Errorf("next should be d, got %s", v)
	}

	l.RemoveKey("a")
	if _, ok := l.Current(); ok {
		t.Errorf("current should be undefined after removing the head")
	}
	checkList(t, l, "b", "d")

	l.RemoveKey("d")
	checkList(t, l, "b")
	if v, _ := l.Current(); v.id != "b" {
		t.Errorf("current should be b, got %s", v)
	}

	if _, ok := l.RemoveKey("x"); ok {
		t.Errorf("x is not in the list")
	}
	checkList(t, l, "b")
}

func TestFindAndGet(t *testing.T) {
	l := newItemList("a", "b", "c")

	if v, ok := l.Find("b"); !ok || v.n != 1 {
		t.Errorf("expected b, got %s", v)
	}
	if v, _ := l.Peek(); v.id != "c" {
		t.Errorf("next should be c, got %s", v)
	}

	if _, ok := l.Find("x"); ok {
		t.Errorf("x is not in the list")
	}
	if v, _ := l.Current(); v.id != "b" {
		t.Errorf("cursor should be unchanged after a failed search, got %s", v)
	}

	if v, ok := l.Get(2); !ok || v.id != "c" {
		t.Errorf("expected c, got %s", v)
	}
	if _, ok := l.Get(3); ok {
		t.Errorf("index out of range")
	}
	if _, ok := l.Get(-1); ok {
		t.Errorf("negative index")
	}
	if v, _ := l.Current(); v.id != "c" {
		t.Errorf("cursor should be unchanged, got %s", v)
	}
}

func TestSlotReuse(t *testing.T) {
	l := newItemList("a", "b", "c")
	l.RemoveKey("b")
	l.First()
	l.Add(item{id: "x"})
	checkList(t, l, "a", "x", "c")
	if len(l.nodes) != 3 {
		t.Errorf("slot of removed node should be reused, %d slots", len(l.nodes))
	}

	l.Clear()
	checkList(t, l)
	l.Add(item{id: "y"})
	checkList(t, l, "y")
	t.Logf("list: %s", l)
}
