package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleMember,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var bookingDescriptions = []string{
	"3D 打印",
	"激光切割",
	"木工加工",
	"电路焊接",
	"社团活动",
	"项目讨论",
	"",
}

// GenerateRandomBooking 在从明天起的 days 天内随机生成一条合法预约
func GenerateRandomBooking(owner string, days int) *domain.Booking {
	date := time.Now().AddDate(0, 0, rand.Intn(days)+1)

	start := rand.Intn(23)
	end := start + rand.Intn(min(4, 24-start)) + 1

	return &domain.Booking{
		Date:        date.Format(domain.BookingDateLayout),
		StartHour:   start,
		EndHour:     end,
		NPeople:     rand.Intn(3) + 1,
		Owner:       owner,
		Description: bookingDescriptions[rand.Intn(len(bookingDescriptions))],
	}
}

// GenerateMakerspaceCapacityTemplate 生成一份贴近实际开放时间的容量模板：
// 工作日白天和晚上开放，周末时间更长、名额更多，深夜闭馆
func GenerateMakerspaceCapacityTemplate() *domain.CapacityTemplate {
	tpl := domain.DefaultCapacityTemplate()

	for day := range tpl.WeekPattern {
		for hour := range tpl.WeekPattern[day] {
			switch {
			case hour < 9 || hour >= 22:
				tpl.WeekPattern[day][hour] = 0
			case day == 0 || day == 6:
				tpl.WeekPattern[day][hour] = 6
			default:
				tpl.WeekPattern[day][hour] = 4
			}
		}
	}

	tpl.RecurringHolidays = []string{"01-01", "05-01", "10-01"}

	return tpl
}
