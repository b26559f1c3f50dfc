package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

// Output 命令行提示输出，写入 stderr，stdout 只留给命令结果
type Output struct {
	w io.Writer
}

// NewOutput 创建输出工具
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Success 输出成功消息
func (o *Output) Success(format string, args ...interface{}) {
	fmt.Fprintf(o.w, "%s %s\n", colorSuccess("✓"), fmt.Sprintf(format, args...))
}

// Error 输出错误消息
func (o *Output) Error(format string, args ...interface{}) {
	fmt.Fprintf(o.w, "%s %s\n", colorError("✗"), fmt.Sprintf(format, args...))
}

// Info 输出信息消息
func (o *Output) Info(format string, args ...interface{}) {
	fmt.Fprintf(o.w, "%s %s\n", colorInfo("i"), fmt.Sprintf(format, args...))
}

// KeyValue 输出键值对
func (o *Output) KeyValue(key, value string) {
	fmt.Fprintf(o.w, "  %s %s\n", colorBold(key+":"), value)
}
