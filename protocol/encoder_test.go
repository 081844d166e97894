package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"arduplot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3.5000000", FormatValue(3.5))
	assert.Equal(t, "-0.1250000", FormatValue(-0.125))
	assert.Equal(t, "0.0000000", FormatValue(0))
	assert.Equal(t, "12345.6789012", FormatValue(12345.67890123))
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := NewEncoder(&buf).Encode(Header{LastUpdated: 17}, nil)
	require.NoError(t, err)
	assert.Equal(t, "dt*0|0|0|17|dt*\r\n", buf.String())
}

func TestEncodeSingleGraph(t *testing.T) {
	x := 3.5
	g := models.NewGraph("temp", models.TimeSeries, 50, []*models.Variable{
		models.NewVariable("x", models.NewNumberRef(&x)),
	})

	var buf bytes.Buffer
	err := NewEncoder(&buf).Encode(Header{1, 1, 50, 1000}, []*models.Graph{g})
	require.NoError(t, err)
	assert.Equal(t, "dt*1|1|50|1000|\r\ntemp|0|50|1|x||3.5000000|dt*\r\n", buf.String())
	assert.Contains(t, buf.String(), "temp|0|50|1|x||3.5000000|")
}

func TestEncodeXYGraph(t *testing.T) {
	x, y := 1, -2
	g := models.NewGraph("pos", models.XY, 20, []*models.Variable{
		models.NewVariable("x", models.NewNumberRef(&x), "red"),
		models.NewVariable("y", models.NewNumberRef(&y)),
	})

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteGraph(g)
	require.NoError(t, enc.writer.Flush())
	assert.Equal(t, "pos|1|20|2|x|red|1.0000000|y||-2.0000000|", buf.String())
}

func TestEncodeReadsValuesAtEncodeTime(t *testing.T) {
	v := 1.0
	g := models.NewGraph("g", models.TimeSeries, 5, []*models.Variable{
		models.NewVariable("v", models.NewNumberRef(&v)),
	})

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(Header{1, 1, 5, 0}, []*models.Graph{g}))
	v = 2
	require.NoError(t, enc.Encode(Header{1, 1, 5, 0}, []*models.Graph{g}))

	frames := strings.SplitAfter(buf.String(), OUTER_KEY+LINE_BREAK)
	require.Len(t, frames, 3) // trailing empty remainder
	assert.Contains(t, frames[0], "v||1.0000000|")
	assert.Contains(t, frames[1], "v||2.0000000|")
}

type failingWriter struct {
	fail   bool
	writes [][]byte
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.fail {
		return 0, errors.New("unplugged")
	}
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestEncodeRecoversAfterWriteError(t *testing.T) {
	w := &failingWriter{fail: true}
	enc := NewEncoder(w)

	err := enc.Encode(Header{}, nil)
	require.Error(t, err)
	assert.Equal(t, err, enc.Err())

	w.fail = false
	require.NoError(t, enc.Encode(Header{LastUpdated: 3}, nil))
	require.Len(t, w.writes, 1)
	assert.Equal(t, "dt*0|0|0|3|dt*\r\n", string(w.writes[0]))
}

func TestEncodeWritesOneChunkPerFrame(t *testing.T) {
	a, b := 1.0, 2.0
	g := models.NewGraph("g", models.TimeSeries, 5, []*models.Variable{
		models.NewVariable("a", models.NewNumberRef(&a)),
		models.NewVariable("b", models.NewNumberRef(&b)),
	})

	w := &failingWriter{}
	require.NoError(t, NewEncoder(w).Encode(Header{1, 2, 5, 0}, []*models.Graph{g}))
	assert.Len(t, w.writes, 1)
}
