package xip

import "errors"

// 预定义错误变量，支持 errors.Is 判断。
var (
	// ErrInvalidAddress 表示文本不符合对应地址族的语法。
	ErrInvalidAddress = errors.New("xip: invalid address")

	// ErrOutOfRange 表示数值超出地址族位宽，或端口超出 [0, 65535]。
	ErrOutOfRange = errors.New("xip: value out of range")

	// ErrUnrecognizedAddress 表示输入既不是 IPv4 也不是 IPv6 字面量。
	ErrUnrecognizedAddress = errors.New("xip: unrecognized address")

	// ErrNilReceiver 表示在 nil 指针上调用了解码方法。
	ErrNilReceiver = errors.New("xip: nil receiver")
)
