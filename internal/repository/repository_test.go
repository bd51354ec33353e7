package repository

import "time"

// testTime is a fixed timestamp shared by repository tests.
var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
