package service

import "fmt"

func welcomeEmailTemplate(name, appName string) (subject, body string) {
	subject = fmt.Sprintf("Thanks for joining %s", appName)
	body = fmt.Sprintf(
		"Welcome to %s, %s. Let me know how you get along with the app.",
		appName, name,
	)
	return subject, body
}

func goodbyeEmailTemplate(name, appName string) (subject, body string) {
	subject = "Sorry to see you go"
	body = fmt.Sprintf(
		"Sorry to see you delete your account with us, %s. If there is anything we can do to change your mind please respond to this email.",
		name,
	)
	return subject, body
}
