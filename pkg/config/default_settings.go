package config

type defaultSettingKey uint

const (
	STREAMADDRESS   defaultSettingKey = 0x0
	SEGMENTPREFIX   defaultSettingKey = 0x1
	RINGCAPACITY    defaultSettingKey = 0x2
	JPEGQUALITY     defaultSettingKey = 0x3
	SENDTIMEOUTSECS defaultSettingKey = 0x4
)

var defaultSettings = map[defaultSettingKey]interface{}{
	STREAMADDRESS:   "192.168.1.100:5001",
	SEGMENTPREFIX:   "/camera",
	RINGCAPACITY:    5,
	JPEGQUALITY:     75,
	SENDTIMEOUTSECS: 3,
}
