package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type plainAsk struct {
	q     Question
	reply func(string, error)
}

// plainPrompter reads answers line by line from stdin. A dedicated reader
// goroutine turns the blocking reads into the callbacks the questionnaire
// expects.
type plainPrompter struct {
	asks chan plainAsk
	quit chan struct{}
	in   *bufio.Reader
	out  io.Writer
}

func newPlainPrompter(title string) *plainPrompter {
	p := &plainPrompter{
		asks: make(chan plainAsk, 1),
		quit: make(chan struct{}),
		in:   bufio.NewReader(os.Stdin),
		out:  os.Stdout,
	}
	color.New(color.Bold).Fprintln(p.out, title)
	go p.loop()
	return p
}

func (p *plainPrompter) loop() {
	prompt := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	for {
		select {
		case <-p.quit:
			return
		case ask := <-p.asks:
			prompt.Fprintf(p.out, "%s", ask.q.Prompt)
			if ask.q.Default != "" {
				dim.Fprintf(p.out, " [%s]", ask.q.Default)
			}
			fmt.Fprint(p.out, ": ")

			line, err := p.in.ReadString('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = errAborted
				}
				ask.reply("", err)
				continue
			}
			ask.reply(strings.TrimSpace(line), nil)
		}
	}
}

func (p *plainPrompter) Ask(q Question, reply func(string, error)) {
	p.asks <- plainAsk{q: q, reply: reply}
}

func (p *plainPrompter) Close() {
	close(p.quit)
}
