package gptest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
)

const sectorSize = 0x1000

// GP7 wraps a GPIF document in the zip layout of Guitar Pro 7 and later.
func GP7(gpif []byte) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range map[string][]byte{
		"VERSION":           []byte("7.0"),
		"Content/score.gpif": gpif,
	} {
		f, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write(data); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// GPX wraps a GPIF document in a compressed BCFS file system.
func GPX(gpif []byte) []byte {
	return BCFZ(BCFS(map[string][]byte{"score.gpif": gpif}))
}

// BCFS lays files out in the sector file system used by Guitar Pro 6:
// a header sector, then for each file an entry sector followed by its
// data sectors.
func BCFS(files map[string][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("BCFS")
	body := make([]byte, sectorSize)
	for name, data := range files {
		entry := make([]byte, sectorSize)
		binary.LittleEndian.PutUint32(entry[0:], 2)
		copy(entry[4 : 4+127], name)
		binary.LittleEndian.PutUint32(entry[0x8C:], uint32(len(data)))
		first := len(body)/sectorSize + 1
		count := (len(data) + sectorSize - 1) / sectorSize
		for i := 0; i < count; i++ {
			binary.LittleEndian.PutUint32(entry[0x94+4*i:], uint32(first+i))
		}
		body = append(body, entry...)
		padded := make([]byte, count*sectorSize)
		copy(padded, data)
		body = append(body, padded...)
	}
	buf.Write(body)
	return buf.Bytes()
}

// BCFZ compresses data using literal runs only.
func BCFZ(data []byte) []byte {
	var bw bitWriter
	for i := 0; i < len(data); i += 3 {
		end := i + 3
		if end > len(data) {
			end = len(data)
		}
		bw.write(0, 1)
		bw.writeReversed(end-i, 2)
		for _, b := range data[i:end] {
			bw.write(int(b), 8)
		}
	}
	var buf bytes.Buffer
	buf.WriteString("BCFZ")
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(data)))
	buf.Write(n[:])
	buf.Write(bw.bytes())
	return buf.Bytes()
}

type bitWriter struct {
	out  []byte
	bits int
}

func (b *bitWriter) bit(v int) {
	if b.bits%8 == 0 {
		b.out = append(b.out, 0)
	}
	if v != 0 {
		b.out[len(b.out)-1] |= 1 << (7 - b.bits%8)
	}
	b.bits++
}

func (b *bitWriter) write(v, count int) {
	for i := count - 1; i >= 0; i-- {
		b.bit(v >> i & 1)
	}
}

func (b *bitWriter) writeReversed(v, count int) {
	for i := 0; i < count; i++ {
		b.bit(v >> i & 1)
	}
}

func (b *bitWriter) bytes() []byte {
	return b.out
}
