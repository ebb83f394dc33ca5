/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/lifetrace/lifetrace/logging"

var appLogger = logging.Logger(logging.SourceApp)
var alarmLogger = logging.Logger(logging.SourceAlarm)
var requestLogger = logging.Logger(logging.SourceWebRequest)
