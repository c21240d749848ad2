package prompt

import (
	"context"
	"fmt"

	"github.com/lox/bikeshare/internal/models"
)

const (
	cityRetry  = "Invalid entry.\nPlease enter Chicago, New York City, or Washington: "
	monthRetry = "Invalid entry, options are:\n - All\n - January\n - February\n - March\n - April\n - May\n - June\nPlease enter a valid month: "
	dayRetry   = "Invalid entry, options are:\n - All\n - Sunday\n - Monday\n - Tuesday\n - Wednesday\n - Thursday\n - Friday\n - Saturday\nPlease enter a valid day of the week: "
)

// Filters collects a city, month and day and asks the user to confirm them.
// Declining starts the three questions again.
func (c *Console) Filters(ctx context.Context) (models.Selection, error) {
	c.Println("Hello! Let's explore some US bikeshare data!")
	for {
		c.Println("City data is available for Chicago, New York City, and Washington.")
		city, err := Ask(ctx, c, "city", "Enter City: ", cityRetry, models.ParseCity)
		if err != nil {
			return models.Selection{}, err
		}

		c.Println("\nMonth data is available for all, January, February, ... , June.")
		month, err := Ask(ctx, c, "month", "Enter Month (full name) or All: ", monthRetry, models.ParseMonth)
		if err != nil {
			return models.Selection{}, err
		}

		c.Println("\nDay of the week data is available for all, Monday, Tuesday, ... , Sunday.")
		day, err := Ask(ctx, c, "day", "Enter Day of the Week (full name) or All: ", dayRetry, models.ParseDay)
		if err != nil {
			return models.Selection{}, err
		}

		sel := models.Selection{City: city, Month: month, Day: day}
		ok, err := c.Confirm(ctx, fmt.Sprintf(
			"You selected the following:\n  City: %s\n  Month(s): %s\n  Day(s): %s\nIs this correct? (Y or N): ",
			sel.City, sel.Month, sel.Day))
		if err != nil {
			return models.Selection{}, err
		}
		if ok {
			return sel, nil
		}
	}
}
