package kafka

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/service"
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
)

const profileSourceTable = "user_detail"

// ProfileSyncer 由 service.ProfileService 实现
type ProfileSyncer interface {
	SyncProfile(ctx context.Context, req *dto.ProfileSyncDTO) error
}

// ProfileSyncHandler 消费身份服务 user_detail 表的 binlog, 同步昵称与头像
type ProfileSyncHandler struct {
	profileSvc ProfileSyncer
}

func NewProfileSyncHandler(profileSvc ProfileSyncer) *ProfileSyncHandler {
	return &ProfileSyncHandler{profileSvc: profileSvc}
}

func (s *ProfileSyncHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("profile sync consumer setup")
	return nil
}

func (s *ProfileSyncHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("profile sync consumer cleanup")
	return nil
}

func (s *ProfileSyncHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-detail consume claim")
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("topic-user-detail process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ProfileSyncHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, profileSourceTable)
	if err != nil {
		return drop(err)
	}
	if canalMsg.Type != INSERT && canalMsg.Type != UPDATE {
		return nil
	}

	for _, row := range canalMsg.Data {
		req, err := toProfileSync(row)
		if err != nil {
			return drop(err)
		}
		if err = s.profileSvc.SyncProfile(ctx, req); err != nil {
			if errors.Is(err, service.ErrParamInvalid) {
				return drop(err)
			}
			return err
		}
	}
	return nil
}

func toProfileSync(row map[string]interface{}) (*dto.ProfileSyncDTO, error) {
	userID := StrToUint64(row["user_id"])
	if userID == 0 {
		return nil, fmt.Errorf("canal row without user_id")
	}
	return &dto.ProfileSyncDTO{
		UserID:    userID,
		Nickname:  StrToString(row["nickname"]),
		AvatarURL: StrToString(row["avatar_url"]),
	}, nil
}
