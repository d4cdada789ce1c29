package mailer

import (
	"errors"
	"fmt"

	mailtpl "github.com/oksasatya/petaverse-auth/pkg/mailer/templates"
)

// ErrEmptyJob is returned for jobs with neither a template nor content.
var ErrEmptyJob = errors.New("email job has no template and no content")

// Compose resolves the subject and bodies of job, rendering its template if set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", ErrEmptyJob
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	data := job.Data
	if data == nil {
		data = map[string]any{}
	}
	if v, ok := data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		data["Email"] = job.To
	}
	return mailtpl.Render(job.Template, data)
}
