package xip

import (
	"database/sql/driver"
	"fmt"
)

// MarshalText 实现 [encoding.TextMarshaler]，输出与 String 相同。
// JSON 编码通过此方法得到带引号的字符串。
func (a IPv4) MarshalText() ([]byte, error) {
	return a.appendTo(nil), nil
}

// UnmarshalText 实现 [encoding.TextUnmarshaler]。
// 空输入设置为零值；对 nil 接收者返回 [ErrNilReceiver]。
func (a *IPv4) UnmarshalText(text []byte) error {
	if a == nil {
		return ErrNilReceiver
	}
	if len(text) == 0 {
		*a = IPv4{}
		return nil
	}
	parsed, err := ParseIPv4(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText 实现 [encoding.TextMarshaler]，输出与 String 相同。
func (a IPv6) MarshalText() ([]byte, error) {
	return a.appendTo(nil), nil
}

// UnmarshalText 实现 [encoding.TextUnmarshaler]。
// 渲染偏好随文本恢复：含 "::" 的文本解码后仍输出压缩形式。
// 空输入设置为零值；对 nil 接收者返回 [ErrNilReceiver]。
func (a *IPv6) UnmarshalText(text []byte) error {
	if a == nil {
		return ErrNilReceiver
	}
	if len(text) == 0 {
		*a = IPv6{}
		return nil
	}
	parsed, err := ParseIPv6(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText 实现 [encoding.TextMarshaler]。
// 零值输出空字节切片，保证 JSON 往返一致。
func (a Address) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return []byte{}, nil
	}
	return []byte(a.String()), nil
}

// UnmarshalText 实现 [encoding.TextUnmarshaler]，按 [Parse] 识别地址族。
// 空输入设置为零值；对 nil 接收者返回 [ErrNilReceiver]。
func (a *Address) UnmarshalText(text []byte) error {
	if a == nil {
		return ErrNilReceiver
	}
	if len(text) == 0 {
		*a = Address{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value 实现 [database/sql/driver.Valuer]。
// 输出 String 文本，零值返回 nil（SQL NULL）。
func (a Address) Value() (driver.Value, error) {
	if !a.IsValid() {
		return nil, nil
	}
	return a.String(), nil
}

// Scan 实现 [database/sql.Scanner]。
// 支持 string、[]byte 与 nil；空字符串与 nil 设置为零值。
// 对 nil 接收者返回 [ErrNilReceiver]。
func (a *Address) Scan(src any) error {
	if a == nil {
		return ErrNilReceiver
	}
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported Scan type %T", ErrInvalidAddress, src)
	}
}
