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

// Package list provides an ordered list with a movable cursor.
//
// Besides the head and the tail, a List keeps two cursor positions: the
// "current" node, i.e., the one most recently added or visited, and the
// "next" node. Whenever current is defined, next is its successor (nil when
// current is the tail). Remove deletes the current node and keeps next
// unchanged, so a caller can delete the node it just visited during a forward
// traversal without skipping or revisiting nodes:
//
//	for v, ok := l.First(); ok; v, ok = l.Next() {
//		if drop(v) {
//			l.Remove()
//		}
//	}
//
// Nodes live in a slice of slots linked in both directions, slots of removed
// nodes are reused. A List is not safe for concurrent use.
package list

import (
	"fmt"
	"strings"
)

const null = -1

type node[T any] struct {
	data T
	prev int
	next int
}

// List is an ordered list of T values, each identified by a key of type K.
type List[K comparable, T any] struct {
	key func(T) K

	nodes []node[T]
	free  []int

	head int
	tail int
	cur  int
	next int
	size int
}

// New creates an empty list. key returns the key of a value,
// it is only used by Find and RemoveKey and could be nil.
func New[K comparable, T any](key func(T) K) *List[K, T] {
	l := &List[K, T]{key: key}
	l.Clear()
	return l
}

// Clear removes all values.
func (l *List[K, T]) Clear() {
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head, l.tail, l.cur, l.next = null, null, null, null
	l.size = 0
}

// Len returns the number of values.
func (l *List[K, T]) Len() int { return l.size }

// IsEmpty tells if the list is empty.
func (l *List[K, T]) IsEmpty() bool { return l.head == null }

func (l *List[K, T]) value(i int) (T, bool) {
	if i == null {
		var zero T
		return zero, false
	}
	return l.nodes[i].data, true
}

// First moves the cursor to the head and returns its value.
func (l *List[K, T]) First() (T, bool) {
	if l.head == null {
		return l.value(null)
	}
	l.cur = l.head
	l.next = l.nodes[l.cur].next
	return l.value(l.cur)
}

// Last moves the cursor to the tail and returns its value.
func (l *List[K, T]) Last() (T, bool) {
	if l.tail == null {
		return l.value(null)
	}
	l.cur = l.tail
	l.next = null
	return l.value(l.cur)
}

// Current returns the value of the current node.
func (l *List[K, T]) Current() (T, bool) { return l.value(l.cur) }

// Peek returns the value of the next node without moving the cursor.
func (l *List[K, T]) Peek() (T, bool) { return l.value(l.next) }

// Next advances the cursor and returns the new current value.
// If there is no next node, the cursor is not changed.
func (l *List[K, T]) Next() (T, bool) {
	if l.next == null {
		return l.value(null)
	}
	l.cur = l.next
	l.next = l.nodes[l.cur].next
	return l.value(l.cur)
}

// Previous moves the cursor one node backward: next becomes the old current
// node and current becomes its predecessor. If current was the head, current
// becomes undefined while next points to the head, so a following Add
// inserts a new head.
func (l *List[K, T]) Previous() (T, bool) {
	if l.cur == null {
		return l.value(null)
	}
	l.next = l.cur
	l.cur = l.nodes[l.cur].prev
	return l.value(l.cur)
}

func (l *List[K, T]) alloc(data T) int {
	var i int
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[i] = node[T]{data: data, prev: null, next: null}
	} else {
		i = len(l.nodes)
		l.nodes = append(l.nodes, node[T]{data: data, prev: null, next: null})
	}
	l.size++
	return i
}

func (l *List[K, T]) release(i int) T {
	data := l.nodes[i].data
	var zero T
	l.nodes[i] = node[T]{data: zero, prev: null, next: null}
	l.free = append(l.free, i)
	l.size--
	return data
}

// insertBefore links node i in front of node at (null for appending).
func (l *List[K, T]) insertBefore(i, at int) {
	if at == null {
		l.nodes[i].prev = l.tail
		if l.tail != null {
			l.nodes[l.tail].next = i
		} else {
			l.head = i
		}
		l.tail = i
		return
	}

	p := l.nodes[at].prev
	l.nodes[i].prev = p
	l.nodes[i].next = at
	l.nodes[at].prev = i
	if p == null {
		l.head = i
	} else {
		l.nodes[p].next = i
	}
}

func (l *List[K, T]) unlink(i int) {
	p, n := l.nodes[i].prev, l.nodes[i].next
	if p == null {
		l.head = n
	} else {
		l.nodes[p].next = n
	}
	if n == null {
		l.tail = p
	} else {
		l.nodes[n].prev = p
	}
}

// Add inserts a value in front of the next node, i.e., right after the
// current node. The new node becomes the current one and next is unchanged.
func (l *List[K, T]) Add(data T) {
	i := l.alloc(data)
	if l.head == null {
		l.insertBefore(i, null)
		l.cur, l.next = i, null
		return
	}
	l.insertBefore(i, l.next)
	l.cur = i
}

// AddHead inserts a value at the head, which becomes the current node.
func (l *List[K, T]) AddHead(data T) {
	i := l.alloc(data)
	l.insertBefore(i, l.head)
	l.cur = i
	l.next = l.nodes[i].next
}

// AddTail appends a value at the tail, which becomes the current node.
func (l *List[K, T]) AddTail(data T) {
	i := l.alloc(data)
	l.insertBefore(i, null)
	l.cur, l.next = i, null
}

// Remove deletes the current node and returns its value. The current node
// becomes the predecessor of next, or undefined if next has no predecessor.
// Next is not changed.
func (l *List[K, T]) Remove() (T, bool) {
	if l.head == null || l.cur == null {
		return l.value(null)
	}
	i := l.cur
	l.cur = l.nodes[i].prev
	l.unlink(i)
	return l.release(i), true
}

// RemoveKey deletes the first node with the given key and returns its value.
// Next becomes the successor of the removed node and current becomes its
// predecessor (or undefined).
func (l *List[K, T]) RemoveKey(key K) (T, bool) {
	i := l.index(key)
	if i == null {
		return l.value(null)
	}
	l.cur, l.next = l.nodes[i].prev, l.nodes[i].next
	l.unlink(i)
	return l.release(i), true
}

func (l *List[K, T]) index(key K) int {
	if l.key == nil {
		return null
	}
	for i := l.head; i != null; i = l.nodes[i].next {
		if l.key(l.nodes[i].data) == key {
			return i
		}
	}
	return null
}

// Find moves the cursor to the first node with the given key.
// The cursor is not changed if there's no such node.
func (l *List[K, T]) Find(key K) (T, bool) {
	i := l.index(key)
	if i == null {
		return l.value(null)
	}
	l.cur, l.next = i, l.nodes[i].next
	return l.value(i)
}

// Get moves the cursor to the n-th (0-based) node.
// The cursor is not changed if n is out of range.
func (l *List[K, T]) Get(n int) (T, bool) {
	if n < 0 {
		return l.value(null)
	}
	i := l.head
	for ; n > 0 && i != null; n-- {
		i = l.nodes[i].next
	}
	if i == null {
		return l.value(null)
	}
	l.cur, l.next = i, l.nodes[i].next
	return l.value(i)
}

// Walk calls fn for every value from the head, without touching the cursor,
// and stops if fn returns true.
func (l *List[K, T]) Walk(fn func(T) bool) {
	for i := l.head; i != null; i = l.nodes[i].next {
		if fn(l.nodes[i].data) {
			return
		}
	}
}

// Values returns all values in order.
func (l *List[K, T]) Values() []T {
	vs := make([]T, 0, l.size)
	l.Walk(func(v T) bool {
		vs = append(vs, v)
		return false
	})
	return vs
}

func (l *List[K, T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	var n int
	l.Walk(func(v T) bool {
		if n > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
		n++
		return false
	})
	b.WriteByte(']')
	return b.String()
}

// Check verifies the internal links, the node counter and the cursor state.
// It is meant for tests.
func (l *List[K, T]) Check() error {
	var n int
	p := null
	for i := l.head; i != null; i = l.nodes[i].next {
		if l.nodes[i].prev != p {
			return fmt.Errorf("list: broken backward link at node %d", n)
		}
		p = i
		n++
		if n > len(l.nodes) {
			return fmt.Errorf("list: cycle detected")
		}
	}
	if n != l.size {
		return fmt.Errorf("list: size mismatch, counted %d, recorded %d", n, l.size)
	}
	if p != l.tail {
		return fmt.Errorf("list: tail is not the last node")
	}
	if l.cur != null && l.nodes[l.cur].next != l.next {
		return fmt.Errorf("list: next is not the successor of current")
	}
	return nil
}
