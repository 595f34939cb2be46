package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	ttemplate "text/template"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"ococalli/internal/config"
)

type IMailService interface {
	SendWelcome(ctx context.Context, to, name, membershipCode, planName string) error
	SendRenewalReceipt(ctx context.Context, to, name string, receipt RenewalReceipt) error
	SendExpiryReminder(ctx context.Context, to, name string, endDate time.Time, daysRemaining int) error
}

// RenewalReceipt is what a member is told after a renewal is recorded.
type RenewalReceipt struct {
	MembershipCode string
	PlanName       string
	Concept        string
	Amount         float64
	Method         string
	StartDate      time.Time
	EndDate        time.Time
}

// NewMailService returns an SMTP sender, or a sender that only logs when no
// SMTP host is configured.
func NewMailService(cfg config.SMTPConfig, baseURL string, log *zap.Logger) (IMailService, error) {
	log = log.Named("mail")
	if !cfg.Enabled() {
		log.Info("smtp not configured, mail disabled")
		return &logMailService{log: log}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.UseSSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &smtpMailService{
		client:  client,
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		html:    template.Must(template.New("html").Parse(baseHTMLTemplate)),
		text:    ttemplate.Must(ttemplate.New("text").Parse(plainTextTemplate)),
		log:     log,
	}, nil
}

type smtpMailService struct {
	client  *mail.Client
	cfg     config.SMTPConfig
	baseURL string
	html    *template.Template
	text    *ttemplate.Template
	log     *zap.Logger
}

func (s *smtpMailService) SendWelcome(ctx context.Context, to, name, code, planName string) error {
	return s.send(ctx, to, EmailData{
		Title: "Bienvenido a Ococalli",
		Intro: fmt.Sprintf("Hola %s, tu registro al plan %s quedó guardado.", name, planName),
		Lines: []string{
			"Tu código de membresía es " + code + ".",
			"Tu membresía se activa cuando registramos tu primer pago.",
		},
		ButtonURL: s.baseURL + "/membership/" + code,
		ButtonTxt: "Ver mi membresía",
	})
}

func (s *smtpMailService) SendRenewalReceipt(ctx context.Context, to, name string, r RenewalReceipt) error {
	return s.send(ctx, to, EmailData{
		Title: "Renovación registrada",
		Intro: fmt.Sprintf("Hola %s, recibimos tu pago.", name),
		Lines: []string{
			"Concepto: " + r.Concept,
			"Plan: " + r.PlanName,
			"Monto: " + FormatAmount(r.Amount),
			"Método de pago: " + r.Method,
			"Vigencia: " + r.StartDate.Format(time.DateOnly) + " al " + r.EndDate.Format(time.DateOnly),
		},
		ButtonURL: s.baseURL + "/membership/" + r.MembershipCode,
		ButtonTxt: "Ver mi membresía",
	})
}

func (s *smtpMailService) SendExpiryReminder(ctx context.Context, to, name string, endDate time.Time, days int) error {
	intro := fmt.Sprintf("Hola %s, tu membresía vence en %d días.", name, days)
	if days == 1 {
		intro = fmt.Sprintf("Hola %s, tu membresía vence mañana.", name)
	}
	return s.send(ctx, to, EmailData{
		Title: "Tu membresía está por vencer",
		Intro: intro,
		Lines: []string{"Fecha de vencimiento: " + endDate.Format(time.DateOnly)},
	})
}

type EmailData struct {
	Title     string
	Intro     string
	Lines     []string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f5efe6; color: #3b2a1a; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 32px 16px; box-sizing: border-box; }
    .container { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
    .header { padding: 24px 28px; background: #6b3f1d; color: #fbe9d0; font-weight: 700; font-size: 20px; letter-spacing: 0.5px; }
    .body { padding: 28px; }
    h1 { margin: 0 0 12px; font-size: 24px; }
    p { margin: 0 0 14px; line-height: 1.6; }
    ul { padding-left: 18px; margin: 0 0 20px; }
    li { margin-bottom: 6px; }
    .btn { display: inline-block; padding: 12px 24px; background: #b5651d; color: #ffffff !important; text-decoration: none; border-radius: 8px; font-weight: 600; }
    .footer { padding: 18px 28px; font-size: 12px; color: #8a7763; text-align: center; border-top: 1px solid #eee2d3; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header">{{.AppName}}</div>
      <div class="body">
        <h1>{{.Title}}</h1>
        <p>{{.Intro}}</p>
        {{if .Lines}}<ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .ButtonURL}}<p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>{{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{range .Lines}}
- {{.}}{{end}}
{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) render(data EmailData) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := s.html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := s.text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) send(ctx context.Context, to string, data EmailData) error {
	data.AppName = s.cfg.FromName
	data.Year = time.Now().Year()

	html, text, err := s.render(data)
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(data.Title)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	s.log.Debug("mail sent", zap.String("to", to), zap.String("subject", data.Title))
	return nil
}

type logMailService struct {
	log *zap.Logger
}

func (l *logMailService) SendWelcome(_ context.Context, to, _, code, _ string) error {
	l.log.Debug("welcome mail skipped", zap.String("to", to), zap.String("membership_code", code))
	return nil
}

func (l *logMailService) SendRenewalReceipt(_ context.Context, to, _ string, r RenewalReceipt) error {
	l.log.Debug("renewal receipt skipped", zap.String("to", to), zap.Time("end_date", r.EndDate))
	return nil
}

func (l *logMailService) SendExpiryReminder(_ context.Context, to, _ string, _ time.Time, days int) error {
	l.log.Debug("expiry reminder skipped", zap.String("to", to), zap.Int("days_remaining", days))
	return nil
}
