// Package notify delivers "task due" notifications. Delivery is best-effort:
// failures are logged and never roll back the state transition that
// triggered them.
package notify

import (
	"context"
	"log"
	"os/exec"
	"strings"

	"github.com/goalraiders/goalraiders/internal/models"
)

// Notifier delivers a notification for a task that just became due.
type Notifier interface {
	TaskDue(ctx context.Context, task *models.Task) error
}

// Multi fans a notification out to several notifiers. Failures are logged
// per notifier and do not stop the others.
type Multi []Notifier

func (m Multi) TaskDue(ctx context.Context, task *models.Task) error {
	for _, n := range m {
		if err := n.TaskDue(ctx, task); err != nil {
			log.Printf("notify: %T failed for task %s: %v", n, task.ID, err)
		}
	}
	return nil
}

// CommandNotifier runs a shell command template for each due task, e.g.
// "notify-send 'GoalRaiders' '{{.Title}} is due'".
type CommandNotifier struct {
	Command string
}

func (c *CommandNotifier) TaskDue(ctx context.Context, task *models.Task) error {
	if c.Command == "" {
		return nil
	}
	cmdStr := templateTask(c.Command, task)
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("notify: command failed: %v: %s", err, strings.TrimSpace(string(out)))
		return err
	}
	return nil
}

// templateTask replaces placeholders in the command template with task values.
func templateTask(command string, task *models.Task) string {
	r := strings.NewReplacer(
		"{{.Title}}", task.Title,
		"{{.TaskID}}", task.ID,
		"{{.Owner}}", task.OwnerUID,
		"{{.Difficulty}}", string(task.Difficulty),
	)
	return r.Replace(command)
}

// dueMessage formats the chat-facing notification text.
func dueMessage(task *models.Task) string {
	return "Task due: " + task.Title + " (" + task.ID + ")"
}
