package xip

import (
	"fmt"
	"strconv"
)

// Option 配置地址值的构造。
type Option func(*options)

type options struct {
	port    uint16
	hasPort bool
	err     error
}

// WithPort 显式指定端口。
//
// 显式端口总是覆盖文本中携带的端口：
//
//	a, _ := xip.ParseIPv4("1.1.1.1:25565", xip.WithPort(80))
//	a.String() // "1.1.1.1:80"
//
// p 超出 [0, 65535] 时构造函数返回 [ErrOutOfRange]。
func WithPort(p int) Option {
	return func(o *options) {
		if p < 0 || p > maxPort {
			o.err = fmt.Errorf("%w: port %d not in [0, %d]", ErrOutOfRange, p, maxPort)
			return
		}
		o.port, o.hasPort = uint16(p), true
	}
}

func collectOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o, o.err
}

// resolvePort 按优先级合并端口：显式端口 > 文本端口 > 无端口。
func (o options) resolvePort(embedded uint16, hasEmbedded bool) (uint16, bool) {
	if o.hasPort {
		return o.port, true
	}
	return embedded, hasEmbedded
}

func appendPort(b []byte, port uint16) []byte {
	b = append(b, ':')
	return strconv.AppendUint(b, uint64(port), 10)
}
