package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bnema/ephemera/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/ephemera/internal/domain"
)

var cliWriteLine = func(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

func cliRenderTitle(msg string) string {
	return styles.Theme.Title.Render(msg)
}

func cliRenderMuted(msg string) string {
	return styles.Theme.Muted.Render(msg)
}

func cliRenderSuccess(msg string) string {
	return styles.RenderSuccess(msg)
}

func cliRenderWarning(msg string) string {
	return styles.RenderWarning(msg)
}

func cliRenderError(msg string) string {
	return styles.RenderError(msg)
}

// containerView is what the run command shows about a ready container.
type containerView struct {
	ID        string
	Name      string
	Image     string
	Session   string
	Endpoints []string
	LogFile   string
}

func newContainerView(id, name, image, session, host string, ports domain.PortMap) containerView {
	v := containerView{ID: id, Name: name, Image: image, Session: session}
	for _, p := range ports.Ports() {
		for _, hostPort := range ports[p] {
			v.Endpoints = append(v.Endpoints, fmt.Sprintf("%s:%d %s %s", host, hostPort, styles.IconArrow, p))
		}
	}
	slices.Sort(v.Endpoints)
	return v
}

func cliRenderContainer(v containerView) string {
	id := v.ID
	if len(id) > 12 {
		id = id[:12]
	}

	rows := []string{
		cliRenderTitle(v.Image),
		styles.RenderKeyValue("id", id),
	}
	if v.Name != "" {
		rows = append(rows, styles.RenderKeyValue("name", v.Name))
	}
	rows = append(rows, styles.RenderKeyValue("session", v.Session))
	if len(v.Endpoints) == 0 {
		rows = append(rows, styles.RenderKeyValue("ports", cliRenderMuted("none published")))
	}
	for i, ep := range v.Endpoints {
		key := ""
		if i == 0 {
			key = "ports"
		}
		rows = append(rows, styles.RenderKeyValue(key, ep))
	}
	if v.LogFile != "" {
		rows = append(rows, styles.RenderKeyValue("output", v.LogFile))
	}
	return styles.Theme.Box.Render(strings.Join(rows, "\n"))
}

func cliRenderTransition(p domain.ContainerStatePayload) string {
	line := fmt.Sprintf("%s %s %s", p.From, styles.IconArrow, p.To)
	switch p.To {
	case domain.StateReady:
		return cliRenderSuccess(line)
	case domain.StateFailed:
		if p.Err != nil {
			line += ": " + p.Err.Error()
		}
		return cliRenderError(line)
	default:
		return cliRenderMuted(styles.IconBullet + " " + line)
	}
}
