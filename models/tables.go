package models

// Tables lists every model managed by AutoMigrate, in dependency order.
var Tables = []interface{}{
	&Car{},
	&Service{},
	&Booking{},
	&NotificationLog{},
}
