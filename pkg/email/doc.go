// Package email sends transactional email.
//
// EmailSender is implemented by PostmarkSender for production delivery,
// DevSender which writes each message to disk as HTML plus JSON metadata, and
// LogSender which only logs. NewSender chooses one from Config:
//
//	sender, err := email.NewSender(cfg, log)
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   cfg.SupportEmail,
//		Subject:  "Signup needs attention",
//		BodyHTML: body,
//		Tag:      "signup-alert",
//	})
//
// Every sender validates SendEmailParams first and reports delivery problems
// wrapped in ErrFailedToSendEmail.
package email
