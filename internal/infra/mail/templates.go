package mail

// Subjects and bodies for the logical notification templates. Bodies are
// html/template sources keyed by the same names the dispatcher uses.

const welcomeSubject = "Welcome to Python Pro – Your Enrollment & Payment Details"

const welcomeBody = `
<p>Hi {{.Name}},</p>
<p>Thank you for your interest in the {{.Course}} at Python Pro!</p>
<p>We&rsquo;ve received your details and reserved a spot for you in the upcoming batch.</p>
<p><strong>Next Steps:</strong><br>
Our team will contact you within 24 hours to confirm your batch timing, share fee details, and guide you through onboarding.</p>
<p>If you have any questions, feel free to reply to this email anytime.</p>
<p>Regards,<br>Python Pro Team<br>support@pythonpro.in</p>
`

const credentialsSubject = "Welcome to {{.Course}} - Your Login Credentials"

const credentialsBody = `
<p>Hi {{.Name}},</p>
<p>Welcome to the <strong>{{.Course}}</strong>! Your payment has been received successfully.</p>
<p>We have created your student account. You can now access your learning dashboard to view your schedule, assignments, and materials.</p>
<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Dashboard URL:</strong> <a href="{{.DashboardURL}}">{{.DashboardURL}}</a></p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Password:</strong> {{.Password}}</p>
</div>
<p>Please login and change your password immediately.</p>
`

const confirmationSubject = "Enrollment Confirmed: {{.Course}}"

const confirmationBody = `
<p>Hi {{.Name}},</p>
<p>Congratulations! Your enrollment in <strong>{{.Course}}</strong> has been confirmed.</p>
<p>Since you are already a registered student, you can simply login to your dashboard to access the new course materials.</p>
<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Dashboard URL:</strong> <a href="{{.DashboardURL}}">{{.DashboardURL}}</a></p>
    <p><strong>Username:</strong> {{.Email}}</p>
</div>
<p>Happy Learning!</p>
<p>Regards,<br>Python Pro Team</p>
`
