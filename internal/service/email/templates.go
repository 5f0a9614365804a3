package email

// Email templates using HTML

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #7c3aed, #5b21b6); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="margin: 0; font-size: 24px;">Welcome to Paradox!</h1>
    </div>
    <div style="background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none;">
        <p>Hi {{.UserName}},</p>
        <p>Your account is ready on the <strong>{{.Plan}}</strong> plan.</p>
        <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
            <p style="margin: 0;">Your referral code:</p>
            <p style="font-size: 22px; font-weight: 600; letter-spacing: 2px; margin: 8px 0 0;">{{.ReferralCode}}</p>
        </div>
        <p>Share it with friends and earn a commission every time one of them joins a paid plan.</p>
        <a href="{{.BaseURL}}/dashboard" style="display: inline-block; background: #7c3aed; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0;">Go to your dashboard</a>
    </div>
    <div style="background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px;">
        Paradox &middot; complete tasks, refer friends, get paid.
    </div>
</body>
</html>
`

const verificationCodeTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-radius: 10px;">
        <h2 style="margin-top: 0;">Verify your email</h2>
        <p>Enter this code to verify your address. It expires in 15 minutes.</p>
        <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; text-align: center;">
            <span style="font-size: 32px; font-weight: 700; letter-spacing: 8px;">{{.Code}}</span>
        </div>
        <p style="font-size: 12px; color: #6b7280;">If you did not request this code, you can ignore this email.</p>
    </div>
</body>
</html>
`

const withdrawalRequestTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-radius: 10px;">
        <h2 style="margin-top: 0;">New withdrawal request</h2>
        <table style="width: 100%; border-collapse: collapse;">
            <tr><td style="padding: 8px 0; color: #6b7280;">User</td><td style="font-weight: 600;">{{.UserName}} ({{.UserEmail}}, {{.UserPhone}})</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Type</td><td style="font-weight: 600;">{{.Type}}</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Amount</td><td style="font-weight: 600;">&#8358;{{.Amount}}</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Account name</td><td style="font-weight: 600;">{{.AccountName}}</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Account number</td><td style="font-weight: 600;">{{.AccountNumber}}</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Bank</td><td style="font-weight: 600;">{{.BankName}}</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Requested</td><td style="font-weight: 600;">{{.RequestDate}}</td></tr>
            <tr><td style="padding: 8px 0; color: #6b7280;">Process by</td><td style="font-weight: 600;">{{.Deadline}}</td></tr>
        </table>
    </div>
</body>
</html>
`

const referralCreditedTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-radius: 10px;">
        <h2 style="margin-top: 0;">You just earned a commission</h2>
        <p>Hi {{.UserName}},</p>
        <p>Someone you referred signed up for a paid plan. We credited
        <strong>&#8358;{{.Commission}}</strong> to your referral balance.</p>
        <a href="{{.BaseURL}}/dashboard" style="display: inline-block; background: #7c3aed; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0;">View your balance</a>
    </div>
</body>
</html>
`
