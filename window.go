// Copyright © 2018 blacktop
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

package lzhuf

// window holds the LZSS sliding window and the binary-search-tree arena
// used to find the longest, closest match for the look-ahead string. The
// arena model (parent/child indices into fixed-size arrays, rather than
// heap-allocated nodes) is kept from the teacher's encodeState: it avoids
// lifetime questions and preserves the index-arithmetic tie-break below.
type window struct {
	lchild        [N + 1]int
	rchild        [N + 257]int
	parent        [N + 1]int
	textBuf       [N + F - 1]byte
	matchPosition int
	matchLength   int
}

// reset reinitializes the window: the buffer to all spaces and every tree
// to empty. Called once per Encode call (InitTree + the space-fill loop in
// the legacy Encode()).
func (w *window) reset() {
	for i := range w.lchild {
		w.lchild[i] = 0
	}
	for i := range w.rchild {
		w.rchild[i] = 0
	}
	for i := range w.parent {
		w.parent[i] = 0
	}
	for i := 0; i < N-F; i++ {
		w.textBuf[i] = ' '
	}
	for i := N + 1; i <= N+256; i++ {
		w.rchild[i] = nilIndex
	}
	for i := 0; i < N; i++ {
		w.parent[i] = nilIndex
	}
	w.matchPosition = 0
	w.matchLength = 0
}

// insertNode registers the F-byte string starting at r into the tree keyed
// by its first byte, updating matchPosition/matchLength with the best
// match found along the way. Ties in match length are broken in favor of
// the smaller (closer) position, per the legacy InsertNode.
func (w *window) insertNode(r int) {
	key := w.textBuf[r:]
	p := N + 1 + int(key[0])
	w.rchild[r] = nilIndex
	w.lchild[r] = nilIndex
	w.matchLength = 0

	cmp := 1
	var i int
	for {
		if cmp >= 0 {
			if w.rchild[p] != nilIndex {
				p = w.rchild[p]
			} else {
				w.rchild[p] = r
				w.parent[r] = p
				return
			}
		} else {
			if w.lchild[p] != nilIndex {
				p = w.lchild[p]
			} else {
				w.lchild[p] = r
				w.parent[r] = p
				return
			}
		}

		for i = 1; i < F; i++ {
			if cmp = int(key[i]) - int(w.textBuf[p+i]); cmp != 0 {
				break
			}
		}

		if i > Threshold {
			if i > w.matchLength {
				w.matchPosition = ((r - p) & (N - 1)) - 1
				if w.matchLength = i; w.matchLength >= F {
					break
				}
			}
			if i == w.matchLength {
				if c := ((r - p) & (N - 1)) - 1; c < w.matchPosition {
					w.matchPosition = c
				}
			}
		}
	}

	// r reached a node whose match is F bytes long: splice r into p's
	// place in the tree and drop p.
	w.parent[r] = w.parent[p]
	w.lchild[r] = w.lchild[p]
	w.rchild[r] = w.rchild[p]
	w.parent[w.lchild[p]] = r
	w.parent[w.rchild[p]] = r
	if w.rchild[w.parent[p]] == p {
		w.rchild[w.parent[p]] = r
	} else {
		w.lchild[w.parent[p]] = r
	}
	w.parent[p] = nilIndex
}

// deleteNode removes node p from its tree, replacing it with the in-order
// predecessor when p has two children.
func (w *window) deleteNode(p int) {
	if w.parent[p] == nilIndex {
		return
	}

	var q int
	switch {
	case w.rchild[p] == nilIndex:
		q = w.lchild[p]
	case w.lchild[p] == nilIndex:
		q = w.rchild[p]
	default:
		q = w.lchild[p]
		if w.rchild[q] != nilIndex {
			for w.rchild[q] != nilIndex {
				q = w.rchild[q]
			}
			w.rchild[w.parent[q]] = w.lchild[q]
			w.parent[w.lchild[q]] = w.parent[q]
			w.lchild[q] = w.lchild[p]
			w.parent[w.lchild[p]] = q
		}
		w.rchild[q] = w.rchild[p]
		w.parent[w.rchild[p]] = q
	}

	w.parent[q] = w.parent[p]
	if w.rchild[w.parent[p]] == p {
		w.rchild[w.parent[p]] = q
	} else {
		w.lchild[w.parent[p]] = q
	}
	w.parent[p] = nilIndex
}
