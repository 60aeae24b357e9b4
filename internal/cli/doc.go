// Package cli — команды radiola-cli.
//
// В отличие от daemon'а, CLI подключается к инфраструктуре напрямую
// (БД, хранилище блокировок, backend'ы станций) и выполняет разовые
// операции: ручной запуск яруса планировщика и feedback о смене
// трека в эфире.
package cli
