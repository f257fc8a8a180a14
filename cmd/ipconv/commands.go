package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xip/internal/config"
	"github.com/omeyang/xip/internal/convert"
	"github.com/omeyang/xip/pkg/observability/xlog"
	"github.com/omeyang/xip/pkg/observability/xmetrics"
	"github.com/omeyang/xip/pkg/util/xip"
)

// maxLineSize batch 输入单行上限。
const maxLineSize = 64 * 1024

// state 在 Before 中初始化，供所有子命令共享。
type state struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      config.Config
	logger   xlog.LoggerWithLevel
	observer xmetrics.Observer
	cleanup  func() error
}

// setup 加载配置、应用命令行覆盖并构建日志。
func (st *state) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return ctx, err
		}
		cfg = loaded
	}

	if cmd.IsSet("log-level") {
		level, err := xlog.ParseLevel(cmd.String("log-level"))
		if err != nil {
			return ctx, newUsageError("--log-level: %v", err)
		}
		cfg.Log.Level = level
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}
	if cmd.IsSet("output") {
		cfg.Output = strings.ToLower(cmd.String("output"))
	}
	if err := cfg.Validate(); err != nil {
		return ctx, newUsageError("%v", err)
	}

	b := xlog.New().
		SetOutput(st.stderr).
		SetLevel(cfg.Log.Level).
		SetFormat(cfg.Log.Format)
	if cfg.Log.File != "" {
		b.SetRotation(cfg.Log.File,
			xlog.WithMaxSize(cfg.Log.MaxSizeMB),
			xlog.WithMaxBackups(cfg.Log.MaxBackups),
			xlog.WithMaxAge(cfg.Log.MaxAgeDays),
			xlog.WithCompress(cfg.Log.Compress),
		)
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return ctx, err
	}
	// 使用 otel 全局 provider，未注册导出器时为 noop
	observer, err := xmetrics.NewOTelObserver(xmetrics.WithInstrumentationName("ipconv"))
	if err != nil {
		_ = cleanup()
		return ctx, err
	}

	st.cfg, st.logger, st.observer, st.cleanup = cfg, logger, observer, cleanup
	return ctx, nil
}

// teardown 关闭日志文件。
func (st *state) teardown(context.Context, *cli.Command) error {
	if st.cleanup == nil {
		return nil
	}
	return st.cleanup()
}

// converter 以当前配置创建 Converter，mutate 用于子命令级覆盖。
func (st *state) converter(mutate func(*config.Config)) (*convert.Converter, error) {
	cfg := st.cfg
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, newUsageError("%v", err)
	}
	return convert.New(cfg, convert.WithLogger(st.logger), convert.WithObserver(st.observer))
}

func (st *state) out() *printer {
	return &printer{w: st.stdout, json: st.cfg.Output == config.OutputJSON}
}

// createCommands 创建所有子命令。
func createCommands(st *state) []*cli.Command {
	cmds := []*cli.Command{
		createValidateCommand(st),
		createParseCommand(st),
		createToNumCommand(st),
		createFromNumCommand(st),
		createHexCommand(st),
		createBatchCommand(st),
	}
	for _, c := range cmds {
		c.OnUsageError = wrapUsageError
	}
	return cmds
}

func createValidateCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "校验地址文本",
		ArgsUsage: "<addr>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "IPv4 每段上限放宽到 65535",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdValidate(st, cmd.Args().Slice(), cmd.Bool("lenient"))
		},
	}
}

func createParseCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Aliases:   []string{"p"},
		Usage:     "识别地址族并输出全部视图",
		ArgsUsage: "<addr>...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdParse(ctx, st, cmd.Args().Slice())
		},
	}
}

func createToNumCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "tonum",
		Usage:     "地址转十进制整数",
		ArgsUsage: "<addr>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdToNum(ctx, st, cmd.Args().Slice())
		},
	}
}

func createFromNumCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "fromnum",
		Usage:     "整数（十进制或 0x 前缀）转地址",
		ArgsUsage: "<number>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "family",
				Usage: "地址族 (auto/4/6)，auto 按数值大小选择",
				Value: "auto",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "附加端口 [0, 65535]",
			},
			&cli.BoolFlag{
				Name:  "full",
				Usage: "IPv6 分组补齐 4 位",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "IPv6 压缩最长零分组序列",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := fromNumOptions{
				family:   cmd.String("family"),
				full:     cmd.Bool("full"),
				compress: cmd.Bool("compress"),
			}
			if cmd.IsSet("port") {
				opts.port, opts.hasPort = cmd.Int("port"), true
			}
			return cmdFromNum(ctx, st, cmd.Args().Slice(), opts)
		},
	}
}

func createHexCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "hex",
		Usage:     "输出地址或整数的 0x 十六进制",
		ArgsUsage: "<addr|number>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdHex(ctx, st, cmd.Args().Slice())
		},
	}
}

func createBatchCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Aliases:   []string{"b"},
		Usage:     "逐行批量转换（空行与 # 注释行被忽略）",
		ArgsUsage: "[file|-]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "并发数，默认取配置 batch.workers",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var workers *int
			if cmd.IsSet("workers") {
				n := cmd.Int("workers")
				workers = &n
			}
			return cmdBatch(ctx, st, cmd.Args().Slice(), workers)
		},
	}
}

func cmdValidate(st *state, args []string, lenient bool) error {
	if len(args) == 0 {
		return newUsageError("validate 需要至少一个地址")
	}
	conv, err := st.converter(func(c *config.Config) {
		if lenient {
			c.Validation.Strict = false
		}
	})
	if err != nil {
		return err
	}

	verdicts := make([]convert.Verdict, 0, len(args))
	invalid := 0
	for _, a := range args {
		v := conv.Validate(a)
		if !v.Valid() {
			invalid++
		}
		verdicts = append(verdicts, v)
	}
	if err := st.out().verdicts(verdicts); err != nil {
		return err
	}
	if invalid > 0 {
		return &exitError{code: exitFailure}
	}
	return nil
}

func cmdParse(ctx context.Context, st *state, args []string) error {
	if len(args) == 0 {
		return newUsageError("parse 需要至少一个地址")
	}
	conv, err := st.converter(nil)
	if err != nil {
		return err
	}

	results := make([]convert.Result, 0, len(args))
	failed := false
	for _, a := range args {
		r, err := conv.Describe(ctx, a)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed = true
		}
		results = append(results, r)
	}
	if err := st.out().results(results); err != nil {
		return err
	}
	if failed {
		return &exitError{code: exitFailure}
	}
	return nil
}

func cmdToNum(ctx context.Context, st *state, args []string) error {
	if len(args) != 1 {
		return newUsageError("tonum 需要且仅需要一个地址")
	}
	conv, err := st.converter(nil)
	if err != nil {
		return err
	}
	r, err := conv.Describe(ctx, args[0])
	return st.single(r, err, r.Decimal)
}

type fromNumOptions struct {
	family   string
	port     int
	hasPort  bool
	full     bool
	compress bool
}

func cmdFromNum(ctx context.Context, st *state, args []string, opts fromNumOptions) error {
	if len(args) != 1 {
		return newUsageError("fromnum 需要且仅需要一个整数")
	}
	family, err := convert.ParseFamily(opts.family)
	if err != nil {
		return newUsageError("--family: %v", err)
	}
	if opts.hasPort && (opts.port < 0 || opts.port > 65535) {
		return newUsageError("--port %d 不在 [0, 65535]", opts.port)
	}
	conv, err := st.converter(func(c *config.Config) {
		if opts.full {
			c.Render.Shorten = false
		}
		if opts.compress {
			c.Render.RemoveZeroes = true
		}
	})
	if err != nil {
		return err
	}

	var xopts []xip.Option
	if opts.hasPort {
		xopts = append(xopts, xip.WithPort(opts.port))
	}
	r, err := conv.FromNumber(ctx, args[0], family, xopts...)
	return st.single(r, err, renderedAddress(r))
}

// renderedAddress 返回 fromnum 的文本输出：IPv6 使用配置的渲染视图。
func renderedAddress(r convert.Result) string {
	if r.Family != xip.V6.String() {
		return r.Address
	}
	if r.Port != nil {
		return fmt.Sprintf("[%s]:%d", r.IPv6, *r.Port)
	}
	return r.IPv6
}

func cmdHex(ctx context.Context, st *state, args []string) error {
	if len(args) != 1 {
		return newUsageError("hex 需要且仅需要一个地址或整数")
	}
	conv, err := st.converter(nil)
	if err != nil {
		return err
	}
	r, err := conv.Describe(ctx, args[0])
	if err != nil && ctx.Err() == nil {
		// 不是地址时按整数处理
		if nr, nerr := conv.FromNumber(ctx, args[0], xip.Unknown); nerr == nil {
			r, err = nr, nil
		}
	}
	return st.single(r, err, r.Hex)
}

// single 输出单个结果：text 模式只打印 text，json 模式打印完整 Result。
func (st *state) single(r convert.Result, err error, text string) error {
	if err != nil {
		if st.cfg.Output == config.OutputJSON {
			if perr := st.out().result(r); perr != nil {
				return perr
			}
		} else {
			fmt.Fprintf(st.stderr, "%s: %v\n", r.Input, err)
		}
		return &exitError{code: exitFailure}
	}
	if st.cfg.Output == config.OutputJSON {
		return st.out().result(r)
	}
	_, werr := fmt.Fprintln(st.stdout, text)
	return werr
}

// cmdBatch 的 workers 为 nil 时使用配置值。
func cmdBatch(ctx context.Context, st *state, args []string, workers *int) error {
	if len(args) > 1 {
		return newUsageError("batch 最多接受一个输入文件")
	}
	var src io.Reader = st.stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("打开输入文件: %w", err)
		}
		defer f.Close()
		src = f
	}

	inputs, err := readLines(src)
	if err != nil {
		return err
	}
	conv, err := st.converter(func(c *config.Config) {
		if workers != nil {
			c.Batch.Workers = *workers
		}
	})
	if err != nil {
		return err
	}

	results, err := conv.Batch(ctx, inputs)
	if err != nil {
		return err
	}
	if err := st.out().table(results); err != nil {
		return err
	}
	for i := range results {
		if results[i].Error != "" {
			return &exitError{code: exitFailure}
		}
	}
	return nil
}

// readLines 读取非空、非注释行，去掉首尾空白。
func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取输入: %w", err)
	}
	return lines, nil
}
