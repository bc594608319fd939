package vcf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"

	"vitigen/api/models/constants"
	"vitigen/api/models/variants"
)

const DefaultBatchSize = 1000

// gzip member header magic bytes
var gzipMagic = []byte{0x1f, 0x8b}

type (
	// BatchScanner streams a tab-separated variant file and exposes its
	// data lines as successive batches of parsed records, in the manner
	// of bufio.Scanner :
	//
	//	for scanner.Scan() {
	//		batch := scanner.Batch()
	//		...
	//	}
	//	if err := scanner.Err(); err != nil { ... }
	//
	// Memory held at any time is bounded by the batch size, not the file
	// size; files opened through Open are memory mapped so multi-gigabyte
	// inputs are paged in by the OS as the scan advances. A scan is only
	// restartable by re-opening the stream from the start.
	BatchScanner struct {
		scanner   *bufio.Scanner
		batchSize int

		sampleNames  []string
		headersFound bool

		batch        []*variants.Variant
		validRecords int
		skippedLines int

		err  error
		done bool

		closers []io.Closer
	}
)

// NewBatchScanner scans an already-open stream. Batches hold up to
// batchSize records; batchSize <= 0 selects DefaultBatchSize.
func NewBatchScanner(r io.Reader, batchSize int) *BatchScanner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	scanner := bufio.NewScanner(r)
	// variant lines with many sample columns can get very long
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	return &BatchScanner{
		scanner:   scanner,
		batchSize: batchSize,
	}
}

// Open memory-maps the file at filePath and returns a BatchScanner over
// its contents. Gzipped files are detected by their magic bytes and
// decompressed on the fly. The caller must Close the scanner.
func Open(filePath string, batchSize int) (*BatchScanner, error) {
	f, openErr := os.Open(filePath)
	if openErr != nil {
		return nil, fmt.Errorf("failed to open variant file : %w", openErr)
	}

	info, statErr := f.Stat()
	if statErr != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat variant file : %w", statErr)
	}

	// an empty file cannot be mapped; scan over an empty reader instead
	if info.Size() == 0 {
		bs := NewBatchScanner(bytes.NewReader(nil), batchSize)
		bs.closers = append(bs.closers, f)
		return bs, nil
	}

	mapped, mapErr := mmap.Map(f, mmap.RDONLY, 0)
	if mapErr != nil {
		f.Close()
		return nil, fmt.Errorf("failed to memory-map variant file : %w", mapErr)
	}

	var reader io.Reader = bytes.NewReader(mapped)
	var gzCloser io.Closer
	if len(mapped) >= 2 && bytes.Equal(mapped[:2], gzipMagic) {
		gzReader, gzErr := gzip.NewReader(reader)
		if gzErr != nil {
			mapped.Unmap()
			f.Close()
			return nil, fmt.Errorf("failed to open gzipped variant file : %w", gzErr)
		}
		reader = gzReader
		gzCloser = gzReader
	}

	bs := NewBatchScanner(reader, batchSize)
	if gzCloser != nil {
		bs.closers = append(bs.closers, gzCloser)
	}
	bs.closers = append(bs.closers, &mmapCloser{mapped}, f)

	return bs, nil
}

// mmapCloser adapts an mmap region to io.Closer for teardown alongside
// the file handle and any decompressor.
type mmapCloser struct {
	mapped mmap.MMap
}

func (c *mmapCloser) Close() error {
	return c.mapped.Unmap()
}

// Scan advances the stream until a full batch has been accumulated or the
// stream ends, returning true whenever at least one record is available
// through Batch. The final (possibly partial) batch is always yielded once,
// even when the stream terminates with an I/O failure; check Err afterward.
func (s *BatchScanner) Scan() bool {
	if s.done {
		return false
	}

	s.batch = s.batch[:0]

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if record, ok := s.parseLine(line); ok {
			s.batch = append(s.batch, record)
			s.validRecords++

			if len(s.batch) >= s.batchSize {
				return true
			}
		}
	}

	// end of stream, or an unrecoverable read failure
	s.done = true
	if scanErr := s.scanner.Err(); scanErr != nil {
		s.err = fmt.Errorf("failed reading variant stream : %w", scanErr)
	}

	return len(s.batch) > 0
}

// Batch returns the records accumulated by the last successful Scan.
// The slice is only valid until the next call to Scan.
func (s *BatchScanner) Batch() []*variants.Variant {
	return s.batch
}

// Err reports the unrecoverable stream failure that terminated the scan,
// if any. Malformed lines never produce an error here; they are skipped,
// logged, and counted in SkippedLines.
func (s *BatchScanner) Err() error {
	return s.err
}

// ValidRecords reports how many data lines parsed into records so far.
func (s *BatchScanner) ValidRecords() int {
	return s.validRecords
}

// SkippedLines reports how many data lines were dropped for having
// fewer than the required fields.
func (s *BatchScanner) SkippedLines() int {
	return s.skippedLines
}

func (s *BatchScanner) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if closeErr := c.Close(); closeErr != nil && firstErr == nil {
			firstErr = closeErr
		}
	}
	return firstErr
}

// parseLine interprets one line of the stream. Metadata and header lines
// update scanner state and yield no record; data lines with fewer than 8
// tab-separated fields are skipped and logged.
func (s *BatchScanner) parseLine(line string) (*variants.Variant, bool) {
	if strings.TrimSpace(line) == "" {
		return nil, false
	}

	if strings.HasPrefix(line, "#") {
		if strings.HasPrefix(line, "#CHROM") {
			// trailing tokens beyond the fixed columns are sample names
			headers := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
			if len(headers) > len(constants.VcfHeaders) {
				s.sampleNames = headers[len(constants.VcfHeaders):]
			}
			s.headersFound = true
		}
		return nil, false
	}

	fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(fields) < 8 {
		s.skippedLines++
		fmt.Printf("[%s] - Incorrect line format, skipping : %.80s\n", time.Now(), line)
		return nil, false
	}

	record := &variants.Variant{
		Chromosome:   normalizeChromosome(fields[0]),
		Position:     coercePosition(fields[1]),
		Id:           dotToEmpty(fields[2]),
		Reference:    strings.TrimSpace(fields[3]),
		Alternate:    strings.TrimSpace(fields[4]),
		Quality:      coerceQuality(fields[5]),
		FilterStatus: coerceFilterStatus(fields[6]),
		Info:         dotToEmpty(fields[7]),
	}

	if len(fields) > 8 {
		record.Format = strings.TrimSpace(fields[8])
	}

	// zip sample values 1:1 against header-declared sample names;
	// pairing stops at the shorter of the two lists
	if len(fields) > 9 && len(s.sampleNames) > 0 {
		sampleValues := fields[9:]
		pairCount := len(sampleValues)
		if len(s.sampleNames) < pairCount {
			pairCount = len(s.sampleNames)
		}

		record.Outputs = make([]variants.SampleOutput, 0, pairCount)
		for i := 0; i < pairCount; i++ {
			record.Outputs = append(record.Outputs, variants.SampleOutput{
				Name:  s.sampleNames[i],
				Value: strings.TrimSpace(sampleValues[i]),
			})
		}
	}

	return record, true
}

// normalizeChromosome uppercases the identifier and strips any
// leading "chr" prefix, i.e. "chr17" and "17" store identically.
func normalizeChromosome(raw string) string {
	value := strings.TrimSpace(raw)
	if len(value) >= 3 && strings.EqualFold(value[:3], "chr") {
		value = value[3:]
	}
	return strings.ToUpper(value)
}

// coercePosition parses a base position, coercing malformed or negative
// input to 0 rather than failing the record.
func coercePosition(raw string) int {
	position, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil || position < 0 {
		return 0
	}
	return position
}

// coerceQuality parses a quality score, coercing "." and non-numeric or
// negative input to 0.0 rather than failing the record.
func coerceQuality(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "." {
		return 0.0
	}
	quality, convErr := strconv.ParseFloat(value, 64)
	if convErr != nil || quality < 0 {
		return 0.0
	}
	return quality
}

func coerceFilterStatus(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "." {
		return "PASS"
	}
	return value
}

func dotToEmpty(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "." {
		return ""
	}
	return value
}

