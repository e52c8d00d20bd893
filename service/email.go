package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"finbook/config"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled && s.cfg.To != ""
}

// SendBudgetAlert 发送本月支出超过可支配预算的提醒邮件
func (s *EmailService) SendBudgetAlert(month string, spent, spendable decimal.Decimal) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true 和收件人")
	}

	subject := fmt.Sprintf("【记账本】%s 支出已超过预算", month)
	body := s.generateAlertBody(month, spent, spendable)

	return s.sendEmail(s.cfg.To, subject, body)
}

// generateAlertBody 生成提醒邮件内容
func (s *EmailService) generateAlertBody(month string, spent, spendable decimal.Decimal) string {
	over := spent.Sub(spendable)
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #dc2626, #b91c1c); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .numbers { background: #fef2f2; border-left: 4px solid #dc2626; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .numbers p { margin: 4px 0; color: #7f1d1d; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💸 预算超支提醒</h1>
        </div>
        <div class="content">
            <p>您 <strong>%s</strong> 的支出已经超过了本月的可支配预算。</p>
            <div class="numbers">
                <p>本月支出：<strong>%s</strong></p>
                <p>可支配预算：<strong>%s</strong></p>
                <p>超支金额：<strong>%s</strong></p>
            </div>
            <p>建议检查近期的消费记录，或调整本月预算。</p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 记账本 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, month, spent.StringFixed(2), spendable.StringFixed(2), over.StringFixed(2))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
