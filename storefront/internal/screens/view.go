package screens

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	RestaurantsRoute      = "RestaurantsScreen"
	RestaurantDetailRoute = "RestaurantDetailScreen"
	OrdersRoute           = "OrdersScreen"
	OrderDetailRoute      = "OrderDetailScreen"
)

// Route names a screen and its parameters. Dirty asks the target to treat its
// data as stale.
type Route struct {
	Name  string `json:"name"`
	ID    int    `json:"id,omitempty"`
	Dirty bool   `json:"dirty,omitempty"`
}

type NotificationKind string

const (
	NotifyError   NotificationKind = "error"
	NotifySuccess NotificationKind = "success"
)

// Notification is a transient message for the presentation layer.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

func errorNotification(prefix string, err error) Notification {
	return Notification{Kind: NotifyError, Message: prefix + " " + err.Error()}
}

type ProductCard struct {
	ID           int    `json:"id"`
	RestaurantID int    `json:"restaurantId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Price        string `json:"price"`
	Target       *Route `json:"target,omitempty"`
}

const (
	cardDateTime = "02 Jan 2006 - 15:04"
	headerDate   = "02 Jan 2006"
)

// imageURL resolves a relative image path against base. Empty paths have no
// image.
func imageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// euros formats v with two decimals.
func euros(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "€"
}

// plainEuros prints v the way the API sends it, without padding.
func plainEuros(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "€"
}

func lineTotal(unit float64, quantity int) string {
	return decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2) + "€"
}

func formatTime(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func orDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
