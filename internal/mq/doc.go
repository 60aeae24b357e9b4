// Package mq — публикация событий в RabbitMQ.
//
// Radiola публикует уведомления об изменениях эфира в topic exchange
// radiola.events; потребители (webhook-диспетчер, панель управления)
// живут вне этого репозитория.
//
// События:
//   - event.request.submitted — заявка слушателя передана AutoDJ
//   - event.nowplaying        — станция сменила трек в эфире
//
// RabbitMQ опционален: без него sync-задачи работают, просто не
// публикуют уведомления.
package mq
