package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/omeyang/xip/internal/convert"
)

// printer 按输出格式打印结果。
type printer struct {
	w    io.Writer
	json bool
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) verdicts(vs []convert.Verdict) error {
	if p.json {
		return p.encode(vs)
	}
	for _, v := range vs {
		var err error
		switch {
		case v.IPv4:
			_, err = fmt.Fprintf(p.w, "%s: valid IPv4 (%s)\n", v.Input, v.Mode)
		case v.IPv6:
			_, err = fmt.Fprintf(p.w, "%s: valid IPv6 (%s)\n", v.Input, v.Mode)
		default:
			_, err = fmt.Fprintf(p.w, "%s: invalid (%s)\n", v.Input, v.Mode)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) result(r convert.Result) error {
	if p.json {
		return p.encode(r)
	}
	return p.results([]convert.Result{r})
}

// results 逐个打印结果的全部视图，结果之间空一行。
func (p *printer) results(rs []convert.Result) error {
	if p.json {
		return p.encode(rs)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 1, ' ', 0)
	for i, r := range rs {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "input:\t%s\n", r.Input)
		if r.Error != "" {
			fmt.Fprintf(tw, "error:\t%s\n", r.Error)
			continue
		}
		fmt.Fprintf(tw, "family:\t%s\n", r.Family)
		fmt.Fprintf(tw, "address:\t%s\n", r.Address)
		fmt.Fprintf(tw, "decimal:\t%s\n", r.Decimal)
		fmt.Fprintf(tw, "hex:\t%s\n", r.Hex)
		if r.IPv4 != "" {
			fmt.Fprintf(tw, "ipv4:\t%s\n", r.IPv4)
		}
		fmt.Fprintf(tw, "ipv6:\t%s\n", r.IPv6)
		fmt.Fprintf(tw, "ipv6 full:\t%s\n", r.IPv6Full)
		fmt.Fprintf(tw, "ipv6 compressed:\t%s\n", r.IPv6Compressed)
		if r.Port != nil {
			fmt.Fprintf(tw, "port:\t%d\n", *r.Port)
		}
	}
	return tw.Flush()
}

// table 每个结果一行：input family address decimal hex，失败行输出 error。
func (p *printer) table(rs []convert.Result) error {
	if p.json {
		return p.encode(rs)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, r := range rs {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\terror\t%s\n", r.Input, strconv.Quote(r.Error))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Input, r.Family, r.Address, r.Decimal, r.Hex)
	}
	return tw.Flush()
}
