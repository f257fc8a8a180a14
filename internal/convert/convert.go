// Package convert 在 xip 之上提供带缓存的批量地址转换，供 ipconv 命令使用。
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/omeyang/xip/internal/config"
	"github.com/omeyang/xip/pkg/observability/xlog"
	"github.com/omeyang/xip/pkg/observability/xmetrics"
	"github.com/omeyang/xip/pkg/util/xip"
)

const component = "convert"

// ErrUnknownFamily 表示无法识别的地址族名称。
var ErrUnknownFamily = errors.New("convert: unknown family")

// Verdict 是一次校验的结果。
type Verdict struct {
	Input string `json:"input"`
	Mode  string `json:"mode"`
	IPv4  bool   `json:"ipv4"`
	IPv6  bool   `json:"ipv6"`
}

// Valid 报告输入是否至少符合一个地址族。
func (v Verdict) Valid() bool { return v.IPv4 || v.IPv6 }

// Result 汇总一个地址的全部视图。Error 非空时其余字段为空。
type Result struct {
	Input          string  `json:"input"`
	Family         string  `json:"family,omitempty"`
	Address        string  `json:"address,omitempty"`
	Decimal        string  `json:"decimal,omitempty"`
	Hex            string  `json:"hex,omitempty"`
	IPv4           string  `json:"ipv4,omitempty"`
	IPv6           string  `json:"ipv6,omitempty"`
	IPv6Full       string  `json:"ipv6_full,omitempty"`
	IPv6Compressed string  `json:"ipv6_compressed,omitempty"`
	Port           *uint16 `json:"port,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Stats 是解析缓存的计数。
type Stats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

// Converter 按配置执行地址转换，并发安全。
type Converter struct {
	cfg      config.Config
	logger   xlog.Logger
	observer xmetrics.Observer
	format   []xip.FormatOption
	cache  *lru.Cache[string, xip.Address] // cache.size 为 0 时为 nil

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option 配置 Converter。
type Option func(*Converter)

// WithLogger 设置日志实例，默认丢弃日志。
func WithLogger(l xlog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver 设置观测器，默认不记录 span 与指标。
func WithObserver(o xmetrics.Observer) Option {
	return func(c *Converter) {
		if o != nil {
			c.observer = o
		}
	}
}

// New 根据配置创建 Converter。
func New(cfg config.Config, opts ...Option) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Converter{
		cfg:      cfg,
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
		format:   cfg.FormatOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(xlog.Component(component))

	if cfg.Cache.Size > 0 {
		cache, err := lru.New[string, xip.Address](cfg.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("convert: create cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Parse 识别地址族并解析，结果按输入文本缓存。
func (c *Converter) Parse(ctx context.Context, s string) (xip.Address, error) {
	if err := ctx.Err(); err != nil {
		return xip.Address{}, err
	}
	if c.cache != nil {
		if a, ok := c.cache.Get(s); ok {
			c.hits.Add(1)
			return a, nil
		}
	}
	c.misses.Add(1)

	a, err := xip.Parse(s)
	if err != nil {
		c.logger.Debug(ctx, "parse failed", xlog.Input(s), xlog.Err(err))
		return xip.Address{}, err
	}
	if c.cache != nil {
		c.cache.Add(s, a)
	}
	return a, nil
}

// Validate 按配置的校验策略检查输入。
func (c *Converter) Validate(s string) Verdict {
	mode := c.cfg.Strictness()
	return Verdict{
		Input: s,
		Mode:  mode.String(),
		IPv4:  xip.ValidateIPv4(s, mode),
		IPv6:  xip.ValidateIPv6(s, mode),
	}
}

// Describe 解析输入并返回全部视图。解析失败时 Result.Error 记录原因，同时返回错误。
func (c *Converter) Describe(ctx context.Context, s string) (_ Result, err error) {
	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "describe",
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	a, err := c.Parse(ctx, s)
	if err != nil {
		return Result{Input: s, Error: err.Error()}, err
	}
	return c.describe(s, a), nil
}

// FromNumber 把十进制或带前缀（0x、0o、0b）的整数构造为地址。
//
// family 为 [xip.Unknown] 时按数值大小选择地址族；为 [xip.V4] 时数值必须落在 32 位内。
func (c *Converter) FromNumber(ctx context.Context, s string, family xip.Family, opts ...xip.Option) (_ Result, err error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "from_number",
		Attrs:     []xmetrics.Attr{xmetrics.String("family", family.String())},
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	r := Result{Input: s}
	n, err := xip.ParseUint128(strings.TrimSpace(s))
	if err != nil {
		r.Error = err.Error()
		return r, err
	}

	var a xip.Address
	switch family {
	case xip.Unknown:
		a, err = xip.AddressFrom(n, opts...)
	case xip.V4:
		if !n.FitsUint32() {
			err = fmt.Errorf("%w: %s does not fit in 32 bits", xip.ErrOutOfRange, n)
			break
		}
		var v4 xip.IPv4
		v4, err = xip.IPv4From(uint32(n.Lo()), opts...)
		a = xip.AddressOf4(v4)
	case xip.V6:
		var v6 xip.IPv6
		v6, err = xip.IPv6From(n, opts...)
		a = xip.AddressOf6(v6)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownFamily, family)
	}
	if err != nil {
		c.logger.Debug(ctx, "from number failed", xlog.Input(s), xlog.Err(err))
		r.Error = err.Error()
		return r, err
	}
	return c.describe(s, a), nil
}

// Batch 并发描述多个输入，结果顺序与输入一致。
//
// 单个输入失败只记录在对应 Result.Error 中；只有 ctx 取消会中止整个批次并返回错误。
func (c *Converter) Batch(ctx context.Context, inputs []string) (_ []Result, err error) {
	start := time.Now()
	id := uuid.New().String()
	logger := c.logger.With(slog.String(keyBatchID, id))

	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "batch",
		Attrs: []xmetrics.Attr{
			xmetrics.String(keyBatchID, id),
			xmetrics.Int("inputs", len(inputs)),
		},
	})
	failed := 0
	defer func() {
		span.End(xmetrics.Result{Err: err, Attrs: []xmetrics.Attr{xmetrics.Int("failed", failed)}})
	}()

	results, err := c.batch(ctx, inputs)
	if err != nil {
		logger.Warn(ctx, "batch aborted", xlog.Count(len(inputs)), xlog.Err(err))
		return nil, err
	}

	for i := range results {
		if results[i].Error != "" {
			failed++
		}
	}
	logger.Info(ctx, "batch done",
		xlog.Count(len(inputs)),
		xlog.Operation("describe"),
		xlog.Duration(time.Since(start)),
	)
	if failed > 0 {
		logger.Warn(ctx, "batch had invalid inputs", xlog.Count(failed))
	}
	return results, nil
}

// keyBatchID 批次标识的日志与 span 属性键。
const keyBatchID = "batch_id"

// Stats 返回缓存命中计数。
func (c *Converter) Stats() Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if c.cache != nil {
		s.Len = c.cache.Len()
	}
	return s
}

func (c *Converter) describe(input string, a xip.Address) Result {
	r := Result{
		Input:          input,
		Family:         a.Family().String(),
		Address:        a.String(),
		Decimal:        a.Num().String(),
		Hex:            a.Hex(),
		IPv6:           a.NumToIPv6(c.format...),
		IPv6Full:       a.NumToIPv6(xip.WithShorten(false)),
		IPv6Compressed: a.NumToIPv6(xip.WithRemoveZeroes(true)),
	}
	if v4, err := a.AsIPv4(); err == nil {
		r.IPv4 = v4.WithoutPort().String()
	}
	if p, ok := a.Port(); ok {
		r.Port = &p
	}
	return r
}

// ParseFamily 解析地址族名称：auto、4、6、ipv4、ipv6（大小写不敏感）。
func ParseFamily(s string) (xip.Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return xip.Unknown, nil
	case "4", "v4", "ipv4":
		return xip.V4, nil
	case "6", "v6", "ipv6":
		return xip.V6, nil
	default:
		return xip.Unknown, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}
