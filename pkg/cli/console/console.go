// Package console provides the interactive operator console of the
// transmitting device.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/input"
)

const consoleKey = "$console"

// CommandPrefix starts a console command.
const CommandPrefix = "/"

var errExit = errors.New("exit")

// Console reads operator lines through an ishell shell and queues them
// for transmission. Commands start with CommandPrefix, e.g. "/limit"; any
// other line is sent exactly as typed.
type Console struct {
	Shell  *ishell.Shell
	Queue  *input.Queue
	MaxLen int
	// OnExit is called when the operator leaves the console.
	OnExit func()

	commands map[string]bool
	text     string
	ctx      context.Context
	lock     sync.Mutex
}

// New creates a Console. maxLen is only used for the hint in `limit`.
func New(maxLen int) *Console {
	c := &Console{
		Shell:    ishell.New(),
		Queue:    input.NewQueue(0),
		MaxLen:   maxLen,
		commands: map[string]bool{"help": true, "clear": true},
		ctx:      context.Background(),
	}
	c.Shell.Set(consoleKey, c)
	c.Shell.SetPrompt("tx > ")
	c.Shell.AutoHelp(false)
	for _, cmd := range []*ishell.Cmd{&SendCmd, &LimitCmd} {
		c.Shell.AddCmd(cmd)
		c.commands[cmd.Name] = true
		for _, alias := range cmd.Aliases {
			c.commands[alias] = true
		}
	}
	return c
}

// From gets Console from ishell context.
func From(c *ishell.Context) *Console {
	return c.Get(consoleKey).(*Console)
}

// Submit queues a line.
func (c *Console) Submit(line string) error {
	c.lock.Lock()
	ctx := c.ctx
	c.lock.Unlock()
	return c.Queue.Push(ctx, line)
}

// Handle processes one raw input line. A command gets the text after its
// name untouched in Text.
func (c *Console) Handle(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if !strings.HasPrefix(fields[0], CommandPrefix) {
		return c.Submit(line)
	}
	name := strings.TrimPrefix(fields[0], CommandPrefix)
	switch {
	case name == "exit" || name == "quit":
		return errExit
	case c.commands[name]:
		c.text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		fields[0] = name
		return c.Shell.Process(fields...)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

// Text is the unparsed argument text of the command being handled.
func (c *Console) Text() string {
	return c.text
}

// TryLine implements LineSource.
func (c *Console) TryLine() (string, bool) {
	return c.Queue.TryLine()
}

// Run implements Runnable.
func (c *Console) Run(ctx context.Context) error {
	c.lock.Lock()
	c.ctx = ctx
	c.lock.Unlock()
	c.Shell.Printf("Enter messages to send (max %d chars), %shelp for commands:\n", c.MaxLen, CommandPrefix)
	return fx.RunWithContextCancel(ctx, c.Shell.Close, func() error {
		if c.OnExit != nil {
			defer c.OnExit()
		}
		for {
			line, err := c.Shell.ReadLineErr()
			if err != nil {
				glog.V(1).Infof("console input closed: %v", err)
				return nil
			}
			if err := c.Handle(line); errors.Is(err, errExit) {
				return nil
			} else if err != nil {
				c.Shell.Println("Error:", err)
			}
		}
	})
}

// AddToLoop implements LoopAdder.
func (c *Console) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
}

var (
	// SendCmd sends the rest of the line as typed, for text starting with
	// CommandPrefix.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: func(c *ishell.Context) {
			con := From(c)
			if con.Text() == "" {
				c.Err(fmt.Errorf("text expected"))
				return
			}
			if err := con.Submit(con.Text()); err != nil {
				c.Err(err)
			}
		},
	}

	// LimitCmd prints the longest message accepted.
	LimitCmd = ishell.Cmd{
		Name: "limit",
		Help: "",
		Func: func(c *ishell.Context) {
			c.Printf("max %d chars\n", From(c).MaxLen)
		},
	}
)
