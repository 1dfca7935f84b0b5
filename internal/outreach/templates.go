package outreach

import "strings"

// Message is one rendered outreach payload.
type Message struct {
	Subject string
	Body    string
}

type messageTemplate struct {
	subject string
	body    string
}

// Placeholders: [Business Name], [Your Name], [Your Number], [Your Email].
var messageTemplates = map[string]messageTemplate{
	"website_offer": {
		subject: "Website Opportunity - [Business Name]",
		body: `Hello [Business Name]!

I help local businesses get professional websites that bring in more customers.

Your business would benefit from:
- Professional website
- Mobile-friendly design
- Google visibility
- Customer trust

Interested? Let's discuss how a website can grow your business.

Call/WhatsApp: [Your Number]
Email: [Your Email]`,
	},
	"quick_offer": {
		subject: "Quick Website Setup - [Business Name]",
		body: `Hi [Business Name]!

Get your business online in 7 days:
- Professional website
- Mobile-friendly
- Affordable pricing
- Increase customers by 40%

Call now: [Your Number]`,
	},
	"follow_up": {
		subject: "Quick Follow-up: Website Consultation for [Business Name]",
		body: `Hi [Business Name],

I reached out recently about creating a professional website for your business. I wanted to follow up briefly.

I'm still offering a free consultation where we can discuss how a website could specifically benefit your business.

Would this week work for a quick call?

Best regards,
[Your Name]`,
	},
}

var defaultTemplate = messageTemplate{
	subject: "Business Opportunity - [Business Name]",
	body:    "Hello [Business Name]! I have a business opportunity that could help grow your company. Please contact me to learn more.",
}

// Sender identifies the operator on whose behalf messages go out.
type Sender struct {
	Name  string
	Email string
	Phone string
}

// RenderTemplate personalizes the named template for one business. Unknown
// template keys fall back to a generic offer.
func RenderTemplate(templateKey, businessName string, sender Sender) Message {
	tmpl, ok := messageTemplates[templateKey]
	if !ok {
		tmpl = defaultTemplate
	}

	replacer := strings.NewReplacer(
		"[Business Name]", businessName,
		"[Your Name]", sender.Name,
		"[Your Number]", sender.Phone,
		"[Your Email]", sender.Email,
	)
	return Message{
		Subject: replacer.Replace(tmpl.subject),
		Body:    replacer.Replace(tmpl.body),
	}
}
