package jpegdecoder

// scanDecoder drives the entropy-coded bitstream that follows an SOS
// segment: MCU iteration, DC/AC symbol decode with DC prediction, and
// restart-marker resynchronization (§4.3).
type scanDecoder struct {
	frame           *frameHeader
	quant           [4]*quantTable
	dcTables        [4]*huffmanTable
	acTables        [4]*huffmanTable
	restartInterval int
	br              *bitReader
	order           []scanComponentSelector
}

// validateTablesPresent enforces the EntropyDecoder precondition: every
// table a scan component references must have been defined by an earlier
// DQT/DHT segment.
func validateTablesPresent(f *frameHeader, quant [4]*quantTable, dcTables, acTables [4]*huffmanTable, offset int) error {
	for i := range f.comps {
		c := &f.comps[i]

		if quant[c.quantSel] == nil {
			return newErr(ErrMissingTable, offset, "quantization table %d for component %d", c.quantSel, c.id)
		}
		if dcTables[c.dcTable] == nil {
			return newErr(ErrMissingTable, offset, "DC Huffman table %d for component %d", c.dcTable, c.id)
		}
		if acTables[c.acTable] == nil {
			return newErr(ErrMissingTable, offset, "AC Huffman table %d for component %d", c.acTable, c.id)
		}
	}

	return nil
}

// decodeScan walks every MCU in raster order, decoding each interleaved
// component's blocks and handling restart-interval resynchronization.
func (d *scanDecoder) decodeScan() error {
	for i := range d.frame.comps {
		d.frame.comps[i].dcPred = 0
	}

	mcusSinceRestart := 0
	nextRST := 0

	for my := 0; my < d.frame.mcusPerColumn; my++ {
		for mx := 0; mx < d.frame.mcusPerRow; mx++ {
			for _, sel := range d.order {
				c := &d.frame.comps[sel.compIndex]

				for by := 0; by < c.v; by++ {
					for bx := 0; bx < c.h; bx++ {
						outX := (mx*c.h + bx) * 8
						outY := (my*c.v + by) * 8
						offset := outY*c.stride + outX

						if err := d.decodeBlock(c, offset); err != nil {
							return err
						}
					}
				}
			}

			mcusSinceRestart++
			if d.restartInterval > 0 && mcusSinceRestart == d.restartInterval {
				if err := d.br.readRestartMarker(nextRST); err != nil {
					return err
				}

				nextRST = (nextRST + 1) & 7
				mcusSinceRestart = 0

				for i := range d.frame.comps {
					d.frame.comps[i].dcPred = 0
				}
			}
		}
	}

	return nil
}

// decodeBlock decodes one 8x8 block for component c: a DC symbol followed
// by AC symbols until index 63 or EOB, dequantizing and un-zigzagging each
// coefficient as it lands, then runs the IDCT straight into c's plane.
func (d *scanDecoder) decodeBlock(c *component, outOffset int) error {
	dcTable := d.dcTables[c.dcTable]
	acTable := d.acTables[c.acTable]
	qt := d.quant[c.quantSel]

	var block [64]int32

	dcSym, err := dcTable.decode(d.br)
	if err != nil {
		return err
	}

	category := int(dcSym)
	if category > 11 {
		return newErr(ErrInvalidBitstream, d.br.br.pos, "DC category %d out of range", category)
	}

	bits := d.br.receive(category)

	c.dcPred += extend(bits, category)
	block[0] = int32(c.dcPred) * int32(qt.values[0])

	idx := 1
	for idx <= 63 {
		acSym, err := acTable.decode(d.br)
		if err != nil {
			return err
		}

		if acSym == 0x00 { // EOB
			break
		}

		if acSym == 0xF0 { // ZRL: 16 zeros, continue
			idx += 16

			continue
		}

		run := int(acSym >> 4)
		size := int(acSym & 0x0F)

		idx += run
		if idx > 63 {
			return newErr(ErrInvalidBitstream, d.br.br.pos, "AC coefficient index %d exceeds 63", idx)
		}

		valBits := d.br.receive(size)

		block[zigzagOrder[idx]] = int32(extend(valBits, size)) * int32(qt.values[idx])
		idx++
	}

	idct8x8(&block, c.pixels, outOffset, c.stride)

	return nil
}
