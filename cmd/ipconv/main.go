// ipconv 在 IP 地址文本、整数与十六进制之间转换。
//
// 用法:
//
//	ipconv [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径（.yaml/.yml/.json）
//	--log-level       日志级别 (debug/info/warn/error)
//	--log-format      日志格式 (text/json)
//	--log-file        日志文件，按体积轮转
//	-o, --output      输出格式 (text/json)
//
// 命令:
//
//	validate <addr>...    校验地址文本（--lenient 放宽 IPv4 段值上限）
//	parse <addr>...       识别地址族并输出全部视图
//	tonum <addr>          地址转十进制整数
//	fromnum <number>      整数转地址（--family、--port、--full、--compress）
//	hex <addr|number>     输出 "0x" 十六进制
//	batch [file|-]        逐行批量转换，默认读取标准输入
//
// 退出码:
//
//	0: 成功
//	1: 输入无效或转换失败（结果已输出）
//	2: 参数错误（未知命令、缺少参数、非法选项值）
//
// 示例:
//
//	ipconv fromnum --family 6 --compress 25601440    # ::186:A5A0
//	ipconv tonum 1.134.165.160                       # 25601440
//	ipconv -o json parse 2606:4700:4700::1111
//	cat addrs.txt | ipconv batch --workers 16
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

// 退出码
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(st *state) *cli.Command {
	app := &cli.Command{
		Name:      "ipconv",
		Usage:     "IP 地址文本、整数与十六进制互转",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Reader:    st.stdin,
		Writer:    st.stdout,
		ErrWriter: st.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (debug/info/warn/error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 (text/json)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，按体积轮转",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "输出格式 (text/json)",
			},
		},
		Before:   st.setup,
		After:    st.teardown,
		Commands: createCommands(st),
		// 禁止 urfave/cli 直接调用 os.Exit，由 run 统一映射退出码。
		ExitErrHandler: func(_ context.Context, cmd *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(cmd.Root().ErrWriter, err)
			}
		},
		OnUsageError: wrapUsageError,
	}
	return app
}

// run 执行命令并返回退出码。
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	st := &state{stdin: stdin, stdout: stdout, stderr: stderr}
	app := createApp(st)

	err := app.Run(ctx, args)
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return exitUsage
	}
	if isCLIUsageError(err) {
		return exitUsage
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitFailure
}

// exitError 表示命令已完成输出，只需设置非零退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 表示参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// wrapUsageError 把 urfave/cli 的 flag 解析错误转为 usageError。
func wrapUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{msg: err.Error()}
}

// isCLIUsageError 识别 urfave/cli 未经 OnUsageError 的参数类错误（如未知命令）。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, s := range []string{
		"flag provided but not defined",
		"flag needs an argument",
		"invalid value",
		"No help topic for",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
