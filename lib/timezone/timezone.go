package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		panic(err)
	}
}

// force the timezone to be JST, draw dates published by the lottery
// are japanese calendar dates and doing Year()/Month()/Day() math in
// the server's local timezone shifts them across midnight
func Now() time.Time {
	return time.Now().In(Location)
}
