package service

// AccessService решает, обслуживать ли пользователя Telegram.
type AccessService struct {
	blacklistMap map[int64]bool
}

func NewAccessService(blacklist []int64) *AccessService {
	blacklistMap := make(map[int64]bool, len(blacklist))
	for _, id := range blacklist {
		blacklistMap[id] = true
	}
	return &AccessService{blacklistMap: blacklistMap}
}

func (s *AccessService) IsBlacklisted(userID int64) bool {
	return s.blacklistMap[userID]
}
