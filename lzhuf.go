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

// Package lzhuf implements the LZSS+adaptive-Huffman compression codec used
// by legacy FBB-compatible amateur-radio mail forwarders to compress
// messages before framing them over a YAPP link (see the sibling yapp
// package). The wire format, including buffer sizes, the literal alphabet,
// and the bit-packing order, is reproduced exactly so this codec interops
// with existing peers running the original C implementation.
package lzhuf

// Wire-format constants. These sizes are not tunable: they define the
// on-wire Huffman alphabet and sliding-window geometry and must match the
// legacy encoder bit-for-bit.
const (
	// N is the sliding-window size. Must be a power of two.
	N = 2048
	// F is the maximum match length (look-ahead size).
	F = 60
	// Threshold is the minimum match length worth emitting as a
	// position/length pair instead of a literal.
	Threshold = 2
	// NChar is the size of the literal+length alphabet: 256 possible
	// byte values minus Threshold "already covered" lengths, plus F
	// possible match lengths.
	NChar = 256 - Threshold + F
	// T is the total node count of the adaptive Huffman tree.
	T = 2*NChar - 1
	// R is the root index of the adaptive Huffman tree.
	R = T - 1
	// maxFreq is the frequency cap that triggers a tree rescale.
	maxFreq = 0x8000
	// nilIndex marks "no child" in the LZSS binary search trees.
	nilIndex = N
)
