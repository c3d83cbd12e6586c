package runtime

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readLine returns the integers of the next input line, or ok=false at end
// of input.
func (c *Context) readLine() (ints []int64, ok bool, err error) {
	line, err := c.in.ReadLine()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ParseInts(line), true, nil
}

// Read consumes one input line and copies up to length parsed integers into
// values starting at offset. It returns the number copied, or -1 at end of
// input.
func (c *Context) Read(values *Array, offset, length int32) (int32, error) {
	ints, ok, err := c.readLine()
	if err != nil || !ok {
		return -1, err
	}
	n := int64(len(ints))
	if int64(length) < n {
		n = int64(length)
	}
	if n < 0 {
		n = 0
	}
	for i := int64(0); i < n; i++ {
		v, err := checkOverflow(ints[i])
		if err != nil {
			return 0, err
		}
		pos := int64(offset) + i
		if !InRange(pos) {
			return 0, indexFault(MaxInt)
		}
		if err := c.SetAt(values, int32(pos), IntValue(v)); err != nil {
			return 0, err
		}
	}
	return int32(n), nil
}

// ReadInt reads the first integer of the next line, 0 if there is none.
func (c *Context) ReadInt() (int32, error) {
	buf := NewIntArray(0)
	if _, err := c.Read(buf, 0, 1); err != nil {
		return 0, err
	}
	return buf.Elems[0].I32, nil
}

// ReadInts reads up to maxLen integers from the next line. The result holds
// only the integers actually read.
func (c *Context) ReadInts(maxLen int32) (*Array, error) {
	if maxLen < 0 {
		return nil, &Fault{Kind: FaultIndexOutOfRange, Msg: fmt.Sprintf("invalid array length: %d", maxLen)}
	}
	ints, _, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if int64(len(ints)) > int64(maxLen) {
		ints = ints[:maxLen]
	}
	elems := make([]Value, len(ints))
	for i, n := range ints {
		v, err := checkOverflow(n)
		if err != nil {
			return nil, err
		}
		elems[i] = IntValue(v)
	}
	return NewArray(elems), nil
}

// Write emits values[offset:offset+length] as one tab-separated line. The
// slice bounds are clamped to the array.
func (c *Context) Write(values *Array, offset, length int32) error {
	start := clamp(int64(offset), 0, int64(values.Len()))
	end := clamp(int64(offset)+int64(length), start, int64(values.Len()))
	parts := make([]string, 0, end-start)
	for _, v := range values.Elems[start:end] {
		parts = append(parts, v.String())
	}
	return c.out.WriteLine(strings.Join(parts, "\t"))
}

func (c *Context) WriteInt(v int32) error {
	return c.out.WriteLine(strconv.FormatInt(int64(v), 10))
}

func (c *Context) WriteInts(values *Array) error {
	return c.Write(values, 0, int32(values.Len()))
}

// Trace reports evaluated expressions on the diagnostic sink as
// "<line>: <text> => v1, v2".
func (c *Context) Trace(line int32, text string, values ...Value) error {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return c.diag.WriteLine(strconv.FormatInt(int64(line), 10) + ": " + text + " => " + strings.Join(parts, ", "))
}

// GetDate returns [year, month, day, hour, minute, second, millisecond,
// timezone offset in minutes (UTC minus local)].
func (c *Context) GetDate() *Array {
	now := c.now()
	_, offset := now.Zone()
	return NewIntArray(
		int32(now.Year()),
		int32(now.Month()),
		int32(now.Day()),
		int32(now.Hour()),
		int32(now.Minute()),
		int32(now.Second()),
		int32(now.Nanosecond()/1e6),
		int32(-offset/60),
	)
}

// GetTime returns the milliseconds elapsed since the context was created,
// truncated to 32 bits.
func (c *Context) GetTime() int32 {
	return int32(c.now().Sub(c.start).Milliseconds())
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
