package decider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cory-johannsen/brawl/internal/game/combat"
)

// Console is a human player reading choices from in and writing prompts to out.
// Moves are shown numbered from 1.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole returns a Console over in and out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Inform prints msg.
func (c *Console) Inform(ctx context.Context, id combat.ID, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", id, msg)
	return err
}

// ChooseMove prints the battle state and numbered moves and reads one line.
//
// Postcondition: a read failure is returned as-is; input that is not a number
// yields an error wrapping combat.ErrResponse.
func (c *Console) ChooseMove(ctx context.Context, moves []combat.Move, actor, opponent combat.Combatant) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n%s\n", describe("You", actor), describe("Opponent", opponent))
	for i, m := range moves {
		fmt.Fprintf(&b, "  %d) %s\n", i+1, m)
	}
	b.WriteString("> ")
	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return 0, err
	}

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	line := strings.TrimSpace(c.in.Text())
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a move number", combat.ErrResponse, line)
	}
	return n - 1, nil
}

func describe(label string, c combat.Combatant) string {
	s := fmt.Sprintf("%s: %s lvl %d  HP %d/%d  ammo %d  charge %d",
		label, c.Name(), c.Level, c.Health, c.MaxHealth, c.Ammo, c.AttacksLanded)
	if c.Summon != nil {
		s += fmt.Sprintf("  %s HP %d", c.Summon.Info.Name, c.Summon.Health)
	}
	if c.Status != combat.StatusAlive {
		s += "  (" + c.Status.String() + ")"
	}
	return s
}
