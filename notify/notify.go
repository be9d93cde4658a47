package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"intake/models"

	"github.com/google/uuid"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Message is a composed decision email, bound to the project as it was at the
// moment of the status change.
type Message struct {
	ProjectID uuid.UUID
	Kind      models.Status
	To        string
	Subject   string
	HTMLBody  string
}

type decisionTemplate struct {
	subject string
	body    *template.Template
}

var decisionTemplates = map[models.Status]decisionTemplate{
	models.StatusAccepted: {
		subject: "Your project request has been accepted",
		body: template.Must(template.New("accepted").Parse(`<p>Hi {{.Name}},</p>
<p>Great news! Your project <strong>{{.Title}}</strong> has been accepted.</p>
<p>We will reach out shortly to discuss the next steps.</p>
<p>Thank you for getting in touch.</p>`)),
	},
	models.StatusRejected: {
		subject: "Update on your project request",
		body: template.Must(template.New("rejected").Parse(`<p>Hi {{.Name}},</p>
<p>Thank you for submitting <strong>{{.Title}}</strong>.</p>
<p>Unfortunately we are not able to take on this project right now.</p>
<p>We wish you the best of luck with it.</p>`)),
	},
}

// Compose renders the email for a project that has just moved to a terminal
// status. Name and title are HTML-escaped by the template.
func Compose(project models.ProjectRequest) (Message, error) {
	tmpl, ok := decisionTemplates[project.Status]
	if !ok {
		return Message{}, fmt.Errorf("no notification template for status %q", project.Status)
	}

	var body bytes.Buffer
	data := struct {
		Name  string
		Title string
	}{
		Name:  project.Name,
		Title: project.Title,
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s template: %w", project.Status, err)
	}

	return Message{
		ProjectID: project.ID,
		Kind:      project.Status,
		To:        project.Email,
		Subject:   tmpl.subject,
		HTMLBody:  body.String(),
	}, nil
}
