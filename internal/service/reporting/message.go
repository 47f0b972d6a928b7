package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/pkg/money"
)

// DailyMessage renders a daily snapshot as a WhatsApp text message.
func DailyMessage(shopName string, r models.DailyReport) string {
	label := r.Date
	if day, err := time.Parse(models.DateLayout, r.Date); err == nil {
		label = day.Format("Monday 2 January 2006")
	}

	var b strings.Builder
	if shopName != "" {
		fmt.Fprintf(&b, "*%s* daily summary\n", shopName)
	} else {
		b.WriteString("*Washify* daily summary\n")
	}
	fmt.Fprintf(&b, "%s\n\n", label)
	fmt.Fprintf(&b, "Orders: %d\n", r.TotalOrders)
	fmt.Fprintf(&b, "Income: %s\n", money.Format(r.TotalIncome))
	fmt.Fprintf(&b, "Expenses: %s\n", money.Format(r.TotalExpenses))
	fmt.Fprintf(&b, "Net profit: %s\n", money.Format(r.NetProfit))
	fmt.Fprintf(&b, "Paid: %s\n", money.Format(r.TotalPaid))
	fmt.Fprintf(&b, "Pending: %s\n", money.Format(r.TotalPending))
	fmt.Fprintf(&b, "Balance: %s", money.Format(r.TotalBalance))
	return b.String()
}
