package lzhuf

// huffman maintains the adaptive Huffman tree over the NChar-symbol
// alphabet. son and prnt together encode the tree: for an internal node i,
// its two children are son[i] and son[i]+1; for a symbol c (0..NChar-1),
// prnt[c+T] is the index of its leaf node, and that leaf node i holds
// son[i] = c+T. freq holds the
// per-node frequency and is kept non-decreasing in index up to R — the
// sibling property — by update after every symbol.
type huffman struct {
	freq [T + 1]uint
	prnt [T + NChar]int
	son  [T]int

	code uint
	len  int
}

// start initializes the tree: every leaf has frequency 1, and internal
// nodes are built bottom-up as a complete binary heap of summed
// frequencies. Called once per Encode/Decode call — tree state is never
// reused across streams.
func (h *huffman) start() {
	for i := 0; i < NChar; i++ {
		h.freq[i] = 1
		h.son[i] = i + T
		h.prnt[i+T] = i
	}
	i, j := 0, NChar
	for j <= R {
		h.freq[j] = h.freq[i] + h.freq[i+1]
		h.son[j] = i
		h.prnt[i] = j
		h.prnt[i+1] = j
		i += 2
		j++
	}
	h.freq[T] = 0xffff
	h.prnt[R] = 0
}

// reconst rebuilds the tree when freq[R] has hit maxFreq, halving every
// leaf frequency and re-pairing internal nodes bottom-up while preserving
// the sibling property. Encoder and decoder execute the identical
// sequence, so no tree state is ever transmitted.
func (h *huffman) reconst() {
	// Collect leaves into the low half of the table, halving frequency.
	j := 0
	for i := 0; i < T; i++ {
		if h.son[i] >= T {
			h.freq[j] = (h.freq[i] + 1) / 2
			h.son[j] = h.son[i]
			j++
		}
	}

	// Rebuild internal nodes by pairing adjacent entries and inserting
	// each new parent at the sorted position among previously built
	// parents.
	i := 0
	for j = NChar; j < T; j++ {
		k := i + 1
		first := h.freq[i] + h.freq[k]
		h.freq[j] = first
		k = j - 1
		for first < h.freq[k] {
			k--
		}
		k++
		last := j - k
		copy(h.freq[k+1:k+1+last], h.freq[k:k+last])
		h.freq[k] = first
		copy(h.son[k+1:k+1+last], h.son[k:k+last])
		h.son[k] = i
		i += 2
	}

	// Rebuild prnt from the reassembled son array.
	for i := 0; i < T; i++ {
		k := h.son[i]
		if k >= T {
			h.prnt[k] = i
		} else {
			h.prnt[k] = i
			h.prnt[k+1] = i
		}
	}
}

// update increments the frequency of symbol c and restores the sibling
// property, rescaling first if the root frequency has overflowed.
func (h *huffman) update(c int) {
	if h.freq[R] == maxFreq {
		h.reconst()
	}
	c = h.prnt[c+T]
	for {
		h.freq[c]++
		k := h.freq[c]

		if k > h.freq[c+1] {
			l := c + 1
			for k > h.freq[l+1] {
				l++
			}
			h.freq[c] = h.freq[l]
			h.freq[l] = k

			i := h.son[c]
			h.prnt[i] = l
			if i < T {
				h.prnt[i+1] = l
			}

			j := h.son[l]
			h.son[l] = i

			h.prnt[j] = c
			if j < T {
				h.prnt[j+1] = c
			}
			h.son[c] = j

			c = l
		}

		c = h.prnt[c]
		if c == 0 {
			break
		}
	}
}

// encodeChar walks c's leaf to the root, building the bit-path (0 for the
// smaller sibling, 1 for the bigger) and emitting it MSB-first via put,
// then updates the tree.
func (h *huffman) encodeChar(bw *bitWriter, c int) {
	var i uint16
	j := 0
	k := h.prnt[c+T]

	for k != R {
		i >>= 1
		if k&1 != 0 {
			i += 0x8000
		}
		j++
		k = h.prnt[k]
	}
	bw.put(j, i)
	h.code = uint(i)
	h.len = j
	h.update(c)
}

// decodeChar walks root-to-leaf, taking the 0-child (son[c]) or 1-child
// (son[c]+1) according to each input bit, then updates the tree.
func (h *huffman) decodeChar(br *bitReader) int {
	c := h.son[R]
	for c < T {
		c += br.getBit()
		c = h.son[c]
	}
	c -= T
	h.update(c)
	return c
}
