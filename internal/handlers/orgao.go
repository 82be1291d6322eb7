package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"opregistro/internal/database"
	"opregistro/internal/forms"
	"opregistro/internal/middleware"
	"opregistro/internal/models"
	"opregistro/internal/refdata"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// podeVer decide se o usuário enxerga o órgão: administradores veem
// tudo, os demais apenas o órgão ao qual estão vinculados.
func podeVer(u models.Usuario, orgao *models.OrgaoProvedor) bool {
	if u.IsAdmin() {
		return true
	}
	return refdata.SameOrgao(orgao.Nome, u.OrgaoProvedor)
}

func podeEditar(u models.Usuario, orgao *models.OrgaoProvedor) bool {
	if u.NivelAcesso == models.NivelVisualizador {
		return false
	}
	return podeVer(u, orgao)
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func catalogoContext() gin.H {
	return gin.H{
		"OrgaosProvedores": refdata.OrgaosProvedores,
		"PostoMap":         refdata.PostoMap,
		"ArmaQuadros":      refdata.ArmaQuadros,
		"Especialidades":   refdata.Especialidades,
		"ListaOMs":         dataset.ListaOMs,
	}
}

// ShowCadastro abre o formulário de cadastro. Um não-administrador cujo
// órgão já está cadastrado é levado direto para a edição.
func ShowCadastro(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.NivelAcesso == models.NivelVisualizador {
		flashRedirect(c, "Seu perfil não permite cadastrar Órgãos Provedores.", "error", "/")
		return
	}
	if !user.IsAdmin() && user.OrgaoProvedor != "" {
		if orgao, ok := findOrgaoPorNome(user.OrgaoProvedor); ok {
			flashRedirect(c, "Seu Órgão Provedor já possui cadastro. Você foi direcionado para a edição.",
				"info", fmt.Sprintf("/orgao/%d/editar", orgao.ID))
			return
		}
	}
	render(c, http.StatusOK, "cadastro.html", catalogoContext())
}

// descartes acumula as rejeições por item ao longo do cadastro para a
// mensagem final.
type descartes struct {
	itens []string
}

func (d *descartes) add(kind string, results []database.ItemResult) {
	for _, r := range results {
		if !r.OK {
			d.itens = append(d.itens, fmt.Sprintf("%s #%d: %s", kind, r.Index+1, r.Reason))
		}
	}
}

// salvarFotos grava os uploads de um campo multipart e vincula cada um
// ao registro dono. Arquivo rejeitado não interrompe os demais. Devolve
// os caminhos gravados para que o chamador os remova do disco se a
// transação (ou o savepoint do item) for desfeita.
func salvarFotos(c *gin.Context, tx *gorm.DB, origem string, registroID uint, campo string) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var salvos []string
	for _, fh := range form.File[campo] {
		rel, err := fotos.Save(fh, origem, fmt.Sprintf("%d", registroID))
		if err != nil {
			log.Warn().Err(err).Str("campo", campo).Str("arquivo", fh.Filename).Msg("foto rejeitada")
			continue
		}
		foto := models.Foto{
			TabelaOrigem:   origem,
			RegistroID:     registroID,
			CaminhoArquivo: rel,
			TipoFoto:       origem,
		}
		if err := tx.Create(&foto).Error; err != nil {
			log.Warn().Err(err).Str("campo", campo).Msg("falha ao registrar foto")
			fotos.Remove(rel)
			continue
		}
		salvos = append(salvos, rel)
	}
	return salvos
}

func removerArquivos(paths []string) {
	for _, rel := range paths {
		fotos.Remove(rel)
	}
}

// inserirFilhos grava os blocos de entidades filhas enviados no
// formulário. Blocos totalmente vazios são ignorados; a falha de um
// item (placa duplicada, por exemplo) descarta só aquele item.
// O segundo retorno lista os arquivos de foto gravados no disco, também
// quando a função falha: o RollbackTo de um item e o rollback da
// transação desfazem as linhas de foto, mas não os arquivos, e cabe a
// quem recebe a lista removê-los.
func inserirFilhos(c *gin.Context, tx *gorm.DB, orgaoID uint, incluirPessoal bool) (*descartes, []string, error) {
	d := &descartes{}
	var salvos []string

	viaturas, err := forms.DecodeList[forms.ViaturaPayload](c.PostForm("viaturas"))
	if err != nil {
		return nil, salvos, fmt.Errorf("viaturas: %w", err)
	}
	filtradas := viaturas[:0]
	for _, v := range viaturas {
		if !v.Empty() {
			filtradas = append(filtradas, v)
		}
	}
	res := database.InsertEach(tx, "viatura", len(filtradas), func(i int) error {
		vt := filtradas[i].ToModel(orgaoID)
		if vt.Placa == "" {
			return fmt.Errorf("placa obrigatória")
		}
		if err := tx.Create(&vt).Error; err != nil {
			return err
		}
		salvos = append(salvos, salvarFotos(c, tx, models.OrigemViatura, vt.ID, fmt.Sprintf("viatura_fotos_%d", i))...)
		return nil
	})
	d.add("viatura", res)

	instalacoes, err := forms.DecodeList[forms.InstalacaoPayload](c.PostForm("instalacoes"))
	if err != nil {
		return nil, salvos, fmt.Errorf("instalações: %w", err)
	}
	instFiltradas := instalacoes[:0]
	for _, p := range instalacoes {
		if !p.Empty() {
			instFiltradas = append(instFiltradas, p)
		}
	}
	res = database.InsertEach(tx, "instalacao", len(instFiltradas), func(i int) error {
		inst := instFiltradas[i].ToModel(orgaoID)
		if err := tx.Create(&inst).Error; err != nil {
			return err
		}
		// fotos gravadas dentro deste item saem do disco se o
		// savepoint do item for desfeito por um subitem
		itemFotos := salvarFotos(c, tx, models.OrigemInstalacao, inst.ID, fmt.Sprintf("instalacao_fotos_%d", i))
		desfaz := func(err error) error {
			removerArquivos(itemFotos)
			return err
		}

		// subitens só existem em depósitos
		if !inst.IsDeposito() {
			salvos = append(salvos, itemFotos...)
			return nil
		}
		for j, ep := range instFiltradas[i].Empilhadeiras {
			if ep.Empty() {
				continue
			}
			emp := ep.ToModel(inst.ID)
			if err := tx.Create(&emp).Error; err != nil {
				return desfaz(err)
			}
			itemFotos = append(itemFotos, salvarFotos(c, tx, models.OrigemEmpilhadeira, emp.ID, fmt.Sprintf("empilhadeira_fotos_%d_%d", i, j))...)
		}
		for j, sp := range instFiltradas[i].Sistemas {
			if sp.Empty() {
				continue
			}
			sis := sp.ToModel(inst.ID)
			if err := tx.Create(&sis).Error; err != nil {
				return desfaz(err)
			}
			itemFotos = append(itemFotos, salvarFotos(c, tx, models.OrigemSistemaSeguranca, sis.ID, fmt.Sprintf("sistema_fotos_%d_%d", i, j))...)
		}
		for j, qp := range instFiltradas[i].Equipamentos {
			if qp.Empty() {
				continue
			}
			eq := qp.ToModel(inst.ID)
			if err := tx.Create(&eq).Error; err != nil {
				return desfaz(err)
			}
			itemFotos = append(itemFotos, salvarFotos(c, tx, models.OrigemEquipamentoUnitizacao, eq.ID, fmt.Sprintf("equipamento_fotos_%d_%d", i, j))...)
		}
		salvos = append(salvos, itemFotos...)
		return nil
	})
	d.add("instalação", res)

	geradores, err := forms.DecodeList[forms.GeradorPayload](c.PostForm("geradores"))
	if err != nil {
		return nil, salvos, fmt.Errorf("geradores: %w", err)
	}
	gerFiltrados := geradores[:0]
	for _, g := range geradores {
		if !g.Empty() {
			gerFiltrados = append(gerFiltrados, g)
		}
	}
	res = database.InsertEach(tx, "gerador", len(gerFiltrados), func(i int) error {
		ger := gerFiltrados[i].ToModel(orgaoID)
		if err := tx.Create(&ger).Error; err != nil {
			return err
		}
		salvos = append(salvos, salvarFotos(c, tx, models.OrigemGerador, ger.ID, fmt.Sprintf("gerador_fotos_%d", i))...)
		return nil
	})
	d.add("gerador", res)

	energias, err := forms.DecodeList[forms.EnergiaPayload](c.PostForm("energia"))
	if err != nil {
		return nil, salvos, fmt.Errorf("energia elétrica: %w", err)
	}
	for _, e := range energias {
		if e.Empty() {
			continue
		}
		en := e.ToModel(orgaoID)
		if err := tx.Create(&en).Error; err != nil {
			return nil, salvos, fmt.Errorf("energia elétrica: %w", err)
		}
	}

	if incluirPessoal {
		if err := inserirPessoal(c, tx, orgaoID); err != nil {
			return nil, salvos, err
		}
	}

	salvos = append(salvos, salvarFotos(c, tx, models.OrigemAreaEdificavel, orgaoID, "area_edificavel_fotos")...)
	return d, salvos, nil
}

func inserirPessoal(c *gin.Context, tx *gorm.DB, orgaoID uint) error {
	pessoal, err := forms.DecodeList[forms.PessoalPayload](c.PostForm("pessoal"))
	if err != nil {
		return fmt.Errorf("pessoal: %w", err)
	}
	for _, p := range pessoal {
		if p.Empty() {
			continue
		}
		reg := p.ToModel(orgaoID)
		if err := tx.Create(&reg).Error; err != nil {
			return fmt.Errorf("pessoal: %w", err)
		}
	}
	return nil
}

// pessoalInformado decide se a submissão traz dados de pessoal: só
// então o bloco armazenado é substituído na edição.
func pessoalInformado(c *gin.Context) bool {
	pessoal, err := forms.DecodeList[forms.PessoalPayload](c.PostForm("pessoal"))
	if err != nil {
		return false
	}
	total := 0
	for _, p := range pessoal {
		if !p.Empty() {
			total += forms.IntOrZero(p.Quantidade)
		}
	}
	return total > 0
}

// validarOrgaoForm aplica as regras do catálogo e o escopo por órgão do
// usuário. Devolve a mensagem de erro para flash, ou "".
func validarOrgaoForm(user models.Usuario, f *forms.OrgaoForm) string {
	nome := f.NomeLimpo()
	if nome == "" {
		return "Informe o nome do Órgão Provedor."
	}
	if !refdata.ValidOrgao(nome) {
		return "Órgão Provedor não consta na lista de órgãos cadastráveis."
	}
	if sigla := f.SiglaLimpa(); sigla != "" && !refdata.SameOrgao(sigla, refdata.SiglaFor(nome)) {
		return "A sigla informada não corresponde ao Órgão Provedor selecionado."
	}
	if !user.IsAdmin() && !refdata.SameOrgao(nome, user.OrgaoProvedor) {
		return "Você só pode cadastrar dados do seu próprio Órgão Provedor."
	}
	return ""
}

// CreateOrgao processa o POST do cadastro completo: órgão + blocos de
// entidades filhas + fotos, tudo numa transação.
func CreateOrgao(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.NivelAcesso == models.NivelVisualizador {
		flashRedirect(c, "Seu perfil não permite cadastrar Órgãos Provedores.", "error", "/")
		return
	}

	var f forms.OrgaoForm
	if err := c.ShouldBind(&f); err != nil {
		flashRedirect(c, "Formulário inválido. Verifique os dados e tente novamente.", "error", "/cadastro")
		return
	}
	if msg := validarOrgaoForm(user, &f); msg != "" {
		flashRedirect(c, msg, "error", "/cadastro")
		return
	}

	// órgão já cadastrado → edição, nunca duplicata
	if existente, ok := findOrgaoPorNome(f.NomeLimpo()); ok {
		flashRedirect(c, fmt.Sprintf("O órgão '%s' já possui cadastro. Edite o registro existente.", existente.Nome),
			"info", fmt.Sprintf("/orgao/%d/editar", existente.ID))
		return
	}
	if sigla := f.SiglaLimpa(); sigla != "" {
		var porSigla models.OrgaoProvedor
		if err := database.DB.Where("sigla = ?", sigla).First(&porSigla).Error; err == nil {
			flashRedirect(c, fmt.Sprintf("A sigla '%s' já possui cadastro. Edite o registro existente.", sigla),
				"info", fmt.Sprintf("/orgao/%d/editar", porSigla.ID))
			return
		}
	}

	var orgaoID uint
	var desc *descartes
	var salvos []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		orgao := models.OrgaoProvedor{CriadoPor: user.ID}
		f.Apply(&orgao)
		if orgao.Sigla == "" {
			orgao.Sigla = refdata.SiglaFor(orgao.Nome)
		}
		if err := tx.Create(&orgao).Error; err != nil {
			return fmt.Errorf("gravando órgão: %w", err)
		}
		orgaoID = orgao.ID

		var err error
		desc, salvos, err = inserirFilhos(c, tx, orgao.ID, true)
		return err
	})
	if err != nil {
		removerArquivos(salvos)
		log.Error().Err(err).Str("orgao", f.NomeLimpo()).Msg("cadastro falhou")
		flashRedirect(c, "Erro ao salvar o cadastro: "+err.Error(), "error", "/cadastro")
		return
	}

	msg := fmt.Sprintf("Órgão Provedor '%s' cadastrado com sucesso!", f.NomeLimpo())
	tipo := "success"
	if len(desc.itens) > 0 {
		msg = fmt.Sprintf("%s %d item(ns) foram descartados: %s", msg, len(desc.itens), desc.itens[0])
		tipo = "warning"
	}
	flashRedirect(c, msg, tipo, fmt.Sprintf("/orgao/%d", orgaoID))
}

// ShowEditar abre o formulário de edição com todos os dados atuais.
func ShowEditar(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, ok := paramID(c)
	if !ok {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}

	var orgao models.OrgaoProvedor
	err := database.DB.
		Preload("Instalacoes.Empilhadeiras").
		Preload("Instalacoes.Sistemas").
		Preload("Instalacoes.Equipamentos").
		Preload("Instalacoes").
		Preload("Viaturas").
		Preload("Geradores").
		Preload("Energia").
		Preload("Pessoal").
		First(&orgao, id).Error
	if err != nil {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}
	if !podeEditar(user, &orgao) {
		flashRedirect(c, "Você não tem permissão para editar este Órgão Provedor.", "error", "/")
		return
	}

	data := catalogoContext()
	data["Orgao"] = orgao
	data["Fotos"] = fotosDoOrgao(&orgao)
	render(c, http.StatusOK, "editar_orgao.html", data)
}

// UpdateOrgao substitui o cadastro: campos escalares aplicados sobre o
// registro, blocos filhos trocados por inteiro, fotos marcadas para
// exclusão removidas antes. Pessoal só é substituído quando a submissão
// traz efetivo informado.
func UpdateOrgao(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, ok := paramID(c)
	if !ok {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}

	var orgao models.OrgaoProvedor
	if err := database.DB.First(&orgao, id).Error; err != nil {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}
	if !podeEditar(user, &orgao) {
		flashRedirect(c, "Você não tem permissão para editar este Órgão Provedor.", "error", "/")
		return
	}

	var f forms.OrgaoForm
	if err := c.ShouldBind(&f); err != nil {
		flashRedirect(c, "Formulário inválido. Verifique os dados e tente novamente.", "error",
			fmt.Sprintf("/orgao/%d/editar", id))
		return
	}
	if msg := validarOrgaoForm(user, &f); msg != "" {
		flashRedirect(c, msg, "error", fmt.Sprintf("/orgao/%d/editar", id))
		return
	}

	fotosExcluir, err := forms.DecodeList[uint](c.PostForm("fotos_excluir"))
	if err != nil {
		flashRedirect(c, "Lista de fotos a excluir inválida.", "error", fmt.Sprintf("/orgao/%d/editar", id))
		return
	}

	var arquivos []string
	var desc *descartes
	var salvos []string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// exclusões explícitas de fotos primeiro, antes do replace-all;
		// fotos de outros órgãos são ignoradas mesmo com o id correto
		for _, fid := range fotosExcluir {
			var foto models.Foto
			if err := tx.First(&foto, fid).Error; err != nil {
				continue
			}
			if dono, ok := orgaoDono(tx, foto); !ok || dono != orgao.ID {
				log.Warn().Uint("foto_id", foto.ID).Uint("orgao_id", orgao.ID).
					Msg("exclusão de foto fora do órgão editado ignorada")
				continue
			}
			if err := tx.Unscoped().Delete(&foto).Error; err != nil {
				return err
			}
			arquivos = append(arquivos, foto.CaminhoArquivo)
		}

		f.Apply(&orgao)
		if orgao.Sigla == "" {
			orgao.Sigla = refdata.SiglaFor(orgao.Nome)
		}
		if err := tx.Save(&orgao).Error; err != nil {
			return fmt.Errorf("gravando órgão: %w", err)
		}

		p, err := database.DeleteViaturasDe(tx, orgao.ID)
		if err != nil {
			return err
		}
		arquivos = append(arquivos, p...)

		p, err = database.DeleteInstalacoesDe(tx, orgao.ID)
		if err != nil {
			return err
		}
		arquivos = append(arquivos, p...)

		p, err = database.DeleteGeradoresDe(tx, orgao.ID)
		if err != nil {
			return err
		}
		arquivos = append(arquivos, p...)

		if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgao.ID).
			Delete(&models.EnergiaEletrica{}).Error; err != nil {
			return err
		}

		incluirPess := pessoalInformado(c)
		if incluirPess {
			if err := tx.Unscoped().Where("orgao_provedor_id = ?", orgao.ID).
				Delete(&models.Pessoal{}).Error; err != nil {
				return err
			}
		}

		desc, salvos, err = inserirFilhos(c, tx, orgao.ID, incluirPess)
		return err
	})
	if err != nil {
		removerArquivos(salvos)
		log.Error().Err(err).Uint("orgao_id", id).Msg("edição falhou")
		flashRedirect(c, "Erro ao salvar as alterações: "+err.Error(), "error",
			fmt.Sprintf("/orgao/%d/editar", id))
		return
	}

	for _, rel := range arquivos {
		fotos.Remove(rel)
	}

	msg := fmt.Sprintf("Órgão Provedor '%s' atualizado com sucesso!", orgao.Nome)
	tipo := "success"
	if len(desc.itens) > 0 {
		msg = fmt.Sprintf("%s %d item(ns) foram descartados: %s", msg, len(desc.itens), desc.itens[0])
		tipo = "warning"
	}
	flashRedirect(c, msg, tipo, fmt.Sprintf("/orgao/%d", id))
}

// fotosDoOrgao agrupa as fotos de todas as entidades do órgão por
// origem, indexadas pelo id do registro dono.
func fotosDoOrgao(orgao *models.OrgaoProvedor) map[string][]models.Foto {
	out := map[string][]models.Foto{}

	coleta := func(origem string, ids []uint) {
		fts, err := database.FotosDe(database.DB, origem, ids)
		if err != nil {
			log.Warn().Err(err).Str("origem", origem).Msg("falha ao listar fotos")
			return
		}
		out[origem] = fts
	}

	var instIDs, empIDs, sisIDs, eqIDs, gerIDs, vtIDs []uint
	for _, i := range orgao.Instalacoes {
		instIDs = append(instIDs, i.ID)
		for _, e := range i.Empilhadeiras {
			empIDs = append(empIDs, e.ID)
		}
		for _, s := range i.Sistemas {
			sisIDs = append(sisIDs, s.ID)
		}
		for _, q := range i.Equipamentos {
			eqIDs = append(eqIDs, q.ID)
		}
	}
	for _, g := range orgao.Geradores {
		gerIDs = append(gerIDs, g.ID)
	}
	for _, v := range orgao.Viaturas {
		vtIDs = append(vtIDs, v.ID)
	}

	coleta(models.OrigemInstalacao, instIDs)
	coleta(models.OrigemEmpilhadeira, empIDs)
	coleta(models.OrigemSistemaSeguranca, sisIDs)
	coleta(models.OrigemEquipamentoUnitizacao, eqIDs)
	coleta(models.OrigemGerador, gerIDs)
	coleta(models.OrigemViatura, vtIDs)
	coleta(models.OrigemAreaEdificavel, []uint{orgao.ID})
	return out
}

// VisualizarOrgao exibe o cadastro completo de um órgão.
func VisualizarOrgao(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, ok := paramID(c)
	if !ok {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}

	var orgao models.OrgaoProvedor
	err := database.DB.
		Preload("Instalacoes.Empilhadeiras").
		Preload("Instalacoes.Sistemas").
		Preload("Instalacoes.Equipamentos").
		Preload("Instalacoes").
		Preload("Viaturas").
		Preload("Geradores").
		Preload("Energia").
		Preload("Pessoal").
		First(&orgao, id).Error
	if err != nil {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}
	if !podeVer(user, &orgao) {
		flashRedirect(c, "Você não tem permissão para visualizar este Órgão Provedor.", "error", "/")
		return
	}

	render(c, http.StatusOK, "visualizar_orgao.html", gin.H{
		"Orgao":      orgao,
		"Fotos":      fotosDoOrgao(&orgao),
		"PostoMap":   refdata.PostoMap,
		"Automatico": dataset.DadosAutomaticosOP(orgao.Sigla),
	})
}

// DeleteOrgao exclui um órgão com toda a árvore de dependentes e os
// arquivos de foto. Rota restrita a administradores.
func DeleteOrgao(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}

	var orgao models.OrgaoProvedor
	if err := database.DB.First(&orgao, id).Error; err != nil {
		flashRedirect(c, "Órgão Provedor não encontrado.", "error", "/")
		return
	}

	var arquivos []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		arquivos, err = database.DeleteOrgaoCascade(tx, id)
		return err
	})
	if err != nil {
		log.Error().Err(err).Uint("orgao_id", id).Msg("exclusão falhou")
		flashRedirect(c, "Erro ao excluir o Órgão Provedor: "+err.Error(), "error", "/")
		return
	}

	for _, rel := range arquivos {
		fotos.Remove(rel)
	}
	log.Info().Uint("orgao_id", id).Str("orgao", orgao.Nome).Msg("órgão provedor excluído")
	flashRedirect(c, fmt.Sprintf("Órgão Provedor '%s' excluído com sucesso.", orgao.Nome), "success", "/")
}
