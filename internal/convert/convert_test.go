package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xip/internal/config"
	"github.com/omeyang/xip/pkg/observability/xlog"
	"github.com/omeyang/xip/pkg/observability/xmetrics"
	"github.com/omeyang/xip/pkg/util/xip"
)

func newTestConverter(t *testing.T, mutate func(*config.Config), opts ...Option) *Converter {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Batch.Workers = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestConverter_ParseCache(t *testing.T) {
	c := newTestConverter(t, nil)
	ctx := context.Background()

	a, err := c.Parse(ctx, "10.0.0.1")
	require.NoError(t, err)
	b, err := c.Parse(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	_, err = c.Parse(ctx, "nope")
	assert.ErrorIs(t, err, xip.ErrUnrecognizedAddress)

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(2), st.Misses)
	assert.Equal(t, 1, st.Len)
}

func TestConverter_ParseNoCache(t *testing.T) {
	c := newTestConverter(t, func(cfg *config.Config) { cfg.Cache.Size = 0 })
	ctx := context.Background()

	for range 3 {
		_, err := c.Parse(ctx, "::1")
		require.NoError(t, err)
	}
	st := c.Stats()
	assert.Equal(t, uint64(0), st.Hits)
	assert.Equal(t, uint64(3), st.Misses)
	assert.Equal(t, 0, st.Len)
}

func TestConverter_ParseCanceled(t *testing.T) {
	c := newTestConverter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Parse(ctx, "10.0.0.1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConverter_Validate(t *testing.T) {
	strict := newTestConverter(t, nil)
	lenient := newTestConverter(t, func(cfg *config.Config) { cfg.Validation.Strict = false })

	v := strict.Validate("1337.1337.1337.1337")
	assert.Equal(t, "strict", v.Mode)
	assert.False(t, v.Valid())

	v = lenient.Validate("1337.1337.1337.1337")
	assert.Equal(t, "lenient", v.Mode)
	assert.True(t, v.IPv4)
	assert.False(t, v.IPv6)
	assert.True(t, v.Valid())

	v = lenient.Validate("1.1.1.1:314159")
	assert.False(t, v.Valid())

	v = strict.Validate("[::1]:80")
	assert.False(t, v.IPv4)
	assert.True(t, v.IPv6)
}

func TestConverter_Describe(t *testing.T) {
	c := newTestConverter(t, nil)
	ctx := context.Background()

	r, err := c.Describe(ctx, "222.173.190.239:80")
	require.NoError(t, err)
	assert.Equal(t, "IPv4", r.Family)
	assert.Equal(t, "222.173.190.239:80", r.Address)
	assert.Equal(t, "3735928559", r.Decimal)
	assert.Equal(t, "0xDEADBEEF", r.Hex)
	assert.Equal(t, "222.173.190.239", r.IPv4)
	assert.Equal(t, "0:0:0:0:0:0:DEAD:BEEF", r.IPv6)
	assert.Equal(t, "0000:0000:0000:0000:0000:0000:DEAD:BEEF", r.IPv6Full)
	assert.Equal(t, "::DEAD:BEEF", r.IPv6Compressed)
	require.NotNil(t, r.Port)
	assert.Equal(t, uint16(80), *r.Port)
	assert.Empty(t, r.Error)

	r, err = c.Describe(ctx, "2606:4700:4700::1111")
	require.NoError(t, err)
	assert.Equal(t, "IPv6", r.Family)
	assert.Equal(t, "2606:4700:4700::1111", r.Address)
	assert.Empty(t, r.IPv4)
	assert.Nil(t, r.Port)

	r, err = c.Describe(ctx, "999.1.1.1")
	assert.ErrorIs(t, err, xip.ErrUnrecognizedAddress)
	assert.Equal(t, "999.1.1.1", r.Input)
	assert.NotEmpty(t, r.Error)
	assert.Empty(t, r.Family)
}

func TestConverter_DescribeRenderConfig(t *testing.T) {
	c := newTestConverter(t, func(cfg *config.Config) {
		cfg.Render.Shorten = false
		cfg.Render.RemoveZeroes = true
	})

	r, err := c.Describe(context.Background(), "0.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "::0001", r.IPv6)
}

func TestConverter_FromNumber(t *testing.T) {
	c := newTestConverter(t, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		family      xip.Family
		opts        []xip.Option
		wantFamily  string
		wantAddress string
		wantErr     error
	}{
		{"auto_v4", "25601440", xip.Unknown, nil, "IPv4", "1.134.165.160", nil},
		{"auto_hex", "0xDEADBEEF", xip.Unknown, nil, "IPv4", "222.173.190.239", nil},
		{"auto_v6", "0x100000000", xip.Unknown, nil, "IPv6", "0:0:0:0:0:1:0:0", nil},
		{"force_v6", "25601440", xip.V6, nil, "IPv6", "0:0:0:0:0:0:186:A5A0", nil},
		{"force_v4", " 3735928559 ", xip.V4, nil, "IPv4", "222.173.190.239", nil},
		{"port", "25601440", xip.Unknown, []xip.Option{xip.WithPort(80)}, "IPv4", "1.134.165.160:80", nil},
		{"v4_overflow", "0x100000000", xip.V4, nil, "", "", xip.ErrOutOfRange},
		{"v6_overflow", "0x1" + strings.Repeat("0", 32), xip.V6, nil, "", "", xip.ErrOutOfRange},
		{"negative", "-1", xip.Unknown, nil, "", "", xip.ErrOutOfRange},
		{"not_a_number", "1.2.3.4", xip.Unknown, nil, "", "", xip.ErrInvalidAddress},
		{"bad_port", "1", xip.V6, []xip.Option{xip.WithPort(1 << 16)}, "", "", xip.ErrOutOfRange},
		{"bad_family", "1", xip.Family(9), nil, "", "", ErrUnknownFamily},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := c.FromNumber(ctx, tt.input, tt.family, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotEmpty(t, r.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFamily, r.Family)
			assert.Equal(t, tt.wantAddress, r.Address)
		})
	}
}

func TestConverter_Batch(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetFormat("json").Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	c := newTestConverter(t, func(cfg *config.Config) { cfg.Batch.Workers = 2 }, WithLogger(logger))

	inputs := []string{"1.1.1.1", "bogus", "::1", "[::1]:53", "1.1.1.1"}
	results, err := c.Batch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input, "order at %d", i)
	}
	assert.Equal(t, "IPv4", results[0].Family)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, "IPv6", results[2].Family)
	assert.Equal(t, "[::1]:53", results[3].Address)

	out := buf.String()
	assert.Contains(t, out, `"msg":"batch done"`)
	assert.Contains(t, out, `"component":"convert"`)
	assert.Contains(t, out, `"msg":"batch had invalid inputs"`)
	assert.Contains(t, out, `"batch_id":"`)
}

func TestConverter_Observer(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	obs, err := xmetrics.NewOTelObserver(xmetrics.WithTracerProvider(tp))
	require.NoError(t, err)

	c := newTestConverter(t, func(cfg *config.Config) { cfg.Batch.Workers = 1 }, WithObserver(obs))
	_, err = c.Batch(context.Background(), []string{"1.1.1.1", "bogus"})
	require.NoError(t, err)
	_, err = c.FromNumber(context.Background(), "0x100000000", xip.V4)
	require.Error(t, err)

	names := make(map[string]int)
	var batchSpan tracetest.SpanStub
	for _, s := range exporter.GetSpans() {
		names[s.Name]++
		if s.Name == "batch" {
			batchSpan = s
		}
	}
	assert.Equal(t, map[string]int{"describe": 2, "batch": 1, "from_number": 1}, names)

	for _, d := range exporter.GetSpans() {
		if d.Name == "describe" {
			assert.Equal(t, batchSpan.SpanContext.TraceID(), d.SpanContext.TraceID())
		}
	}
}

func TestConverter_BatchLarge(t *testing.T) {
	c := newTestConverter(t, func(cfg *config.Config) {
		cfg.Batch.Workers = 4
		cfg.Cache.Size = 16
	})

	inputs := make([]string, 500)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("10.0.%d.%d", i/256, i%256)
	}
	results, err := c.Batch(context.Background(), inputs)
	require.NoError(t, err)
	for i, r := range results {
		require.Equal(t, inputs[i], r.Address)
	}
	assert.LessOrEqual(t, c.Stats().Len, 16)
}

func TestConverter_BatchEmpty(t *testing.T) {
	c := newTestConverter(t, nil)
	results, err := c.Batch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestConverter_BatchCanceled(t *testing.T) {
	c := newTestConverter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := c.Batch(ctx, []string{"1.1.1.1", "::1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		input   string
		want    xip.Family
		wantErr bool
	}{
		{"", xip.Unknown, false},
		{"auto", xip.Unknown, false},
		{"4", xip.V4, false},
		{"IPv4", xip.V4, false},
		{"v6", xip.V6, false},
		{"6", xip.V6, false},
		{"5", xip.Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFamily(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFamily)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
