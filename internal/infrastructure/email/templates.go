package email

import (
	"fmt"
	"strings"
)

// =====================================================
// EMAIL TEMPLATES
// =====================================================
// Variables use {{name}} placeholders, substituted verbatim.

const (
	TemplateWelcomeAuthor    = "welcome_author"
	TemplateOrderPaid        = "order_paid"
	TemplatePaymentFailed    = "payment_failed"
	TemplateRefundProcessed  = "refund_processed"
	TemplateRoyaltyStatement = "royalty_statement"
	TemplateSupportReply     = "support_reply"
)

type emailTemplate struct {
	Subject string
	Text    string
}

var templates = map[string]emailTemplate{
	TemplateWelcomeAuthor: {
		Subject: "Welcome to Writer's Pocket",
		Text: `Hi {{name}},

Your author account is ready. Your author ID is {{author_uid}}.

Complete your signup to set a password and start submitting manuscripts.`,
	},
	TemplateOrderPaid: {
		Subject: "Payment received for order {{order_number}}",
		Text: `Hi {{name}},

We received your payment for order {{order_number}} ({{amount}}).
Your author copies are now being processed.`,
	},
	TemplatePaymentFailed: {
		Subject: "Payment failed for order {{order_number}}",
		Text: `Hi {{name}},

The payment for order {{order_number}} could not be completed.
Please try again from your dashboard.`,
	},
	TemplateRefundProcessed: {
		Subject: "Refund processed for order {{order_number}}",
		Text: `Hi {{name}},

Your refund for order {{order_number}} has been processed.
The amount should reach your account within 5-7 business days.`,
	},
	TemplateRoyaltyStatement: {
		Subject: "Your royalty statement for {{period}}",
		Text: `Hi {{name}},

Your royalty statement for {{period}} is ready:
total earned {{total}} across {{entries}} sales.

Log in to your dashboard for the full breakdown.`,
	},
	TemplateSupportReply: {
		Subject: "Re: {{subject}}",
		Text: `Hi {{name}},

Our team replied to your support query "{{subject}}":

{{reply}}`,
	},
}

// renderTemplate resolves a template name and substitutes variables into
// subject and body.
func renderTemplate(name string, vars map[string]string) (subject, html, text string, err error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template: %s", name)
	}

	subject = substitute(tmpl.Subject, vars)
	text = substitute(tmpl.Text, vars)
	return subject, "", text, nil
}

func substitute(s string, vars map[string]string) string {
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
