package email

const ReceiptEmailTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Donation Receipt</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f9fafb; font-family: Arial, sans-serif;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="background-color: #f9fafb;">
        <tr>
            <td align="center" style="padding: 40px 20px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="max-width: 600px; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="padding: 48px 40px;">
                            <h1 style="font-size: 22px; color: #1f2937; margin: 0 0 24px;">%s</h1>
                            <p style="font-size: 15px; color: #374151;">Your support keeps our work going. Here are the details of your gift:</p>
                            <table role="presentation" cellspacing="0" cellpadding="8" border="0" width="100%%" style="margin: 24px 0; background-color: #f3f4f6; border-radius: 8px;">
                                <tr>
                                    <td style="color: #6b7280; font-size: 14px;">Type</td>
                                    <td style="color: #1f2937; font-size: 14px; text-align: right;">%s</td>
                                </tr>
                                <tr>
                                    <td style="color: #6b7280; font-size: 14px;">Amount</td>
                                    <td style="color: #1f2937; font-size: 14px; text-align: right;">%s</td>
                                </tr>
                                <tr>
                                    <td style="color: #6b7280; font-size: 14px;">Reference</td>
                                    <td style="color: #1f2937; font-size: 14px; text-align: right;">%s</td>
                                </tr>
                            </table>
                            <p style="font-size: 13px; color: #6b7280;">If you have any questions about your donation, just reply to this email.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
